package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// NotificationLog representa o documento que será salvo no Mongo:
// o rastro durável de cada notificação de certificado despachada.
// Usamos tags 'bson' em vez de 'json'.
type NotificationLog struct {
	ID              string    `bson:"_id,omitempty"` // O Mongo gera automático se vazio
	CertificateCode string    `bson:"certificate_code"`
	OrderNumber     string    `bson:"order_number"`
	RecipientName   string    `bson:"recipient_name"`
	RecipientEmail  string    `bson:"recipient_email"`
	SenderName      string    `bson:"sender_name"`
	Amount          string    `bson:"amount"`
	Currency        string    `bson:"currency"`
	DispatchedAt    time.Time `bson:"dispatched_at"`
}

type NotificationLogRepository struct {
	collection *mongo.Collection
}

func NewNotificationLogRepository(client *mongo.Client, dbName string) *NotificationLogRepository {
	// Cria/Obtém a collection "notification_logs"
	collection := client.Database(dbName).Collection("notification_logs")
	return &NotificationLogRepository{collection: collection}
}

func (r *NotificationLogRepository) Save(ctx context.Context, log NotificationLog) error {
	// Adiciona timestamp do despacho
	log.DispatchedAt = time.Now()

	// InsertOne salva o documento
	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to insert notification log: %w", err)
	}
	return nil
}
