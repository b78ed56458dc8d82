package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// PipelineDeps groups the mocked collaborators of a pipeline.
type PipelineDeps struct {
	Resolver *MockAddressResolver
	Nonces   *MockNonceSource
	Signer   *MockRequestSigner
	Relayer  *MockRelayer
	Recorder *MockSubmissionRecorder
}

// NewPipelineDepsForTest creates every pipeline mock on one controller.
func NewPipelineDepsForTest(t *testing.T) *PipelineDeps {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &PipelineDeps{
		Resolver: NewMockAddressResolver(ctrl),
		Nonces:   NewMockNonceSource(ctrl),
		Signer:   NewMockRequestSigner(ctrl),
		Relayer:  NewMockRelayer(ctrl),
		Recorder: NewMockSubmissionRecorder(ctrl),
	}
}


// HandlerDeps groups the mocked collaborators of the vote handler.
type HandlerDeps struct {
	Submitter *MockVoteSubmitter
	Tally     *MockTallyReader
	Resolver  *MockAddressResolver
}

// NewHandlerDepsForTest creates every handler mock on one controller.
func NewHandlerDepsForTest(t *testing.T) *HandlerDeps {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &HandlerDeps{
		Submitter: NewMockVoteSubmitter(ctrl),
		Tally:     NewMockTallyReader(ctrl),
		Resolver:  NewMockAddressResolver(ctrl),
	}
}
