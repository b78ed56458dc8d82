package constants

// Environment variable names
const (
	EnvStage               = "STAGE"
	EnvLogLevel            = "LOG_LEVEL"
	EnvRPCURL              = "RPC_URL"
	EnvChainID             = "CHAIN_ID"
	EnvAddressSource       = "ADDRESS_SOURCE"
	EnvVotingContract      = "VOTING_CONTRACT_ADDRESS"
	EnvForwarderContract   = "FORWARDER_CONTRACT_ADDRESS"
	EnvBackendURL          = "BACKEND_URL"
	EnvRelayBaseURL        = "RELAY_BASE_URL"
	EnvGasLimit            = "GAS_LIMIT"
	EnvGasPriceWei         = "GAS_PRICE_WEI"
	EnvSignerKeySource     = "SIGNER_KEY_SOURCE"
	EnvSignerPrivateKey    = "SIGNER_PRIVATE_KEY"
	EnvSignerPrivateKeyARN = "SIGNER_PRIVATE_KEY_ARN"
	EnvSignerKeystorePath  = "SIGNER_KEYSTORE_PATH"
	EnvSignerKeystorePass  = "SIGNER_KEYSTORE_PASSWORD"
	EnvHTTPTimeout         = "HTTP_TIMEOUT"
	EnvAPIPort             = "API_PORT"
	EnvRateLimitRPS        = "RATE_LIMIT_RPS"
	EnvRateLimitBurst      = "RATE_LIMIT_BURST"
	EnvCORSAllowedOrigins  = "CORS_ALLOWED_ORIGINS"
	EnvCORSAllowedMethods  = "CORS_ALLOWED_METHODS"
	EnvCORSAllowedHeaders  = "CORS_ALLOWED_HEADERS"
	EnvCORSExposedHeaders  = "CORS_EXPOSED_HEADERS"
	EnvCORSAllowCreds      = "CORS_ALLOW_CREDENTIALS"
)
