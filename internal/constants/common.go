package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	DefaultLogLevel = "info"

	// Environments
	ProdEnvironment = "prod"
	TestEnvironment = "test"

	// Address sources
	AddressSourceStatic    = "static"
	AddressSourceDiscovery = "discovery"

	// Signer key sources
	KeySourceEnv      = "env"
	KeySourceKeystore = "keystore"
	KeySourceAWS      = "aws"

	// Relay outcome status
	PendingStatus = "pending"
)

// Forwarder typed-data domain. These must match the deployed MinimalForwarder.
const (
	ForwarderDomainName    = "MinimalForwarder"
	ForwarderDomainVersion = "0.0.1"
	ForwardRequestType     = "ForwardRequest"
)

// Defaults
const (
	DefaultGasLimit       = 1_000_000
	DefaultGasPriceWei    = "10000000000" // 10 gwei
	DefaultAPIPort        = "8000"
	DefaultRateLimitRPS   = 5
	DefaultRateLimitBurst = 10
)
