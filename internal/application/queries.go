package application

import (
	"github.com/bnema/loanflow/internal/domain"
)

// Reply is what a front end shows after every orchestrator call.
type Reply struct {
	SessionID domain.SessionID
	Stage     domain.Stage
	Prompt    string
	Decision  *domain.Decision
	Document  *domain.DocumentHandle
}

type Health struct {
	ActiveSessions int
	TotalSessions  int
}

func replyFor(session domain.Session, prompt string) Reply {
	clone := session.Clone()
	return Reply{
		SessionID: session.ID,
		Stage:     session.Stage,
		Prompt:    prompt,
		Decision:  clone.Decision,
		Document:  clone.Document,
	}
}
