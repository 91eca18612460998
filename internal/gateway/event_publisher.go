package gateway

import "context"

// EventPublisher despacha notificações fire-and-forget (e-mail do destinatário
// do certificado, auditoria). Sempre FORA da transação: falha aqui vira
// warning no log, nunca desfaz um pedido já colocado.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}
