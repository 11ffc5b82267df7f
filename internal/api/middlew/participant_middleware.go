package middlew

import (
	"context"
	"log/slog"
	"net/http"
	"nexus-gateway/internal/models"
	"nexus-gateway/pkg/response"
	"regexp"
	"strings"
)

// ParticipantHeader BIC участника, от имени которого пришел запрос
const ParticipantHeader = "X-Participant-BIC"

var bicPattern = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)

// WithParticipant кладет BIC участника в контекст. Заголовок необязателен,
// без него действующей стороной считается сам шлюз.
func WithParticipant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := GetLogger(r.Context())

		bic := strings.ToUpper(strings.TrimSpace(r.Header.Get(ParticipantHeader)))
		if bic == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !bicPattern.MatchString(bic) {
			log.Warn("invalid participant BIC", slog.String("bic", bic))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_participant", ParticipantHeader+" must be a BIC")
			return
		}

		ctx := context.WithValue(r.Context(), participantKey, bic)
		ctx = context.WithValue(ctx, loggerKey, log.With(slog.String("participant", bic)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetParticipant(ctx context.Context) string {
	if bic, ok := ctx.Value(participantKey).(string); ok {
		return bic
	}
	return models.ActorNexus
}
