package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

type completer interface {
	Complete(ctx context.Context, question, contextText string) (string, error)
}

// Service answers analyst questions, preferring the external model and
// degrading to the deterministic offline responder on any failure.
type Service struct {
	client    completer
	incidents store.IncidentsStore
	logger    *utils.Logger
}

func NewService(client *Client, incidents store.IncidentsStore, logger *utils.Logger) *Service {
	return &Service{client: client, incidents: incidents, logger: logger}
}

type Answer struct {
	Text    string `json:"text"`
	Offline bool   `json:"offline"`
}

func (s *Service) Ask(ctx context.Context, question string) Answer {
	contextText := s.incidentContext(ctx)
	if s.client != nil {
		answer, err := s.client.Complete(ctx, question, contextText)
		if err == nil {
			return Answer{Text: answer}
		}
		if s.logger != nil {
			s.logger.Warnf("assistant call failed, using offline fallback: %v", err)
		}
	}
	return Answer{Text: OfflineResponse(question, contextText), Offline: true}
}

// incidentContext builds the summary handed to the model. Aggregation
// failures degrade to an empty context rather than failing the question.
func (s *Service) incidentContext(ctx context.Context) string {
	if s.incidents == nil {
		return ""
	}
	byStatus, err := s.incidents.CountByStatus(ctx)
	if err != nil {
		return ""
	}
	bySeverity, err := s.incidents.CountBySeverity(ctx)
	if err != nil {
		return ""
	}
	var b strings.Builder
	writeCounts(&b, "By status", byStatus)
	writeCounts(&b, "By severity", bySeverity)
	return strings.TrimSpace(b.String())
}

func writeCounts(b *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString(title + ":\n")
	for _, k := range keys {
		label := k
		if label == "" {
			label = "(unset)"
		}
		fmt.Fprintf(b, "- %s: %d\n", label, counts[k])
	}
}
