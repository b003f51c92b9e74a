package auth

import (
	"github.com/0xPetra/zuzagorauth/src/audit"
	"github.com/0xPetra/zuzagorauth/src/nullifier"
	"github.com/0xPetra/zuzagorauth/src/session"
	"github.com/0xPetra/zuzagorauth/src/sso"
	"github.com/0xPetra/zuzagorauth/src/tickets"
	"github.com/0xPetra/zuzagorauth/src/zkp"
)

func Build(
	verifier zkp.Verifier,
	resolver *tickets.Resolver,
	guard nullifier.Guard,
	signer *sso.Signer,
	sessions *session.Store,
	recorder audit.Recorder,
) *Handler {
	svc := NewService(verifier, resolver, guard, signer, func(s *Service) {
		s.Audit = recorder
	})
	return NewHandler(svc, sessions)
}
