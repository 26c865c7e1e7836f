// Package finance serves the club ledgers (income and expenditure), their
// category taxonomies, and the finance assistant chat.
package finance

import (
	categorystore "github.com/dalemusser/strataclub/internal/app/store/categories"
	financestore "github.com/dalemusser/strataclub/internal/app/store/finance"
	"github.com/dalemusser/strataclub/internal/app/system/chatrelay"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the finance endpoints.
type Handler struct {
	ledgers    map[financestore.Kind]*financestore.Store
	categories map[categorystore.Kind]*categorystore.Store
	chat       chatrelay.Completer
	logger     *zap.Logger
}

// NewHandler creates a finance Handler. chat may be nil when no relay is
// configured; the chat endpoint then answers 500.
func NewHandler(db *mongo.Database, chat chatrelay.Completer, logger *zap.Logger) *Handler {
	return &Handler{
		ledgers: map[financestore.Kind]*financestore.Store{
			financestore.Income:      financestore.New(db, financestore.Income),
			financestore.Expenditure: financestore.New(db, financestore.Expenditure),
		},
		categories: map[categorystore.Kind]*categorystore.Store{
			categorystore.Finance:   categorystore.New(db, categorystore.Finance, logger),
			categorystore.Inventory: categorystore.New(db, categorystore.Inventory, logger),
		},
		chat:   chat,
		logger: logger,
	}
}
