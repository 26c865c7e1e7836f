package finance

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/system/chatrelay"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const systemPrompt = "You are a finance assistant for a student club. " +
	"Answer questions about the club's income and expenditure using only the finance data provided. " +
	"Amounts are in the club's local currency. If the data does not answer the question, say so."

const noReply = "Sorry, I couldn't generate a response."

// Chat handles POST /api/chat. The client sends the finance records it is
// showing; they are passed to the model as context for the question.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message     string          `json:"message"`
		FinanceData json.RawMessage `json:"financeData"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		jsonutil.BadRequest(w, "Message is required.")
		return
	}
	if h.chat == nil {
		h.logger.Warn("chat requested but no relay is configured")
		jsonutil.InternalError(w, "Chat service unavailable.")
		return
	}

	data := "null"
	if len(in.FinanceData) > 0 {
		data = string(in.FinanceData)
	}
	msgs := []chatrelay.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "system", Content: "Finance data (JSON): " + data},
		{Role: "user", Content: in.Message},
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	reply, err := h.chat.Complete(ctx, msgs)
	if err != nil {
		h.logger.Error("chat relay failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to get a response from the assistant.")
		return
	}
	if strings.TrimSpace(reply) == "" {
		reply = noReply
	}
	jsonutil.OK(w, map[string]string{"reply": reply})
}
