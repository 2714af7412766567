package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldProvider  = "intent_provider"
	FieldModel     = "intent_model"
	FieldSession   = "session_id"
	FieldRequestID = "request_id"
	FieldLead      = "lead"
	FieldCompany   = "company"
)

// Strings turns alternating key/value pairs into zap fields. Pairs with a blank
// key or value are skipped, as is a trailing key without a value.
func Strings(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// With attaches fields to l. A nil logger becomes a no-op one.
func With(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// ProviderFields names the intent provider and its model.
func ProviderFields(provider, model string) []zap.Field {
	return Strings(FieldProvider, provider, FieldModel, model)
}

func WithProvider(l *zap.Logger, provider, model string) *zap.Logger {
	return With(l, ProviderFields(provider, model)...)
}

// RequestFields identifies the session and HTTP request an entry belongs to.
func RequestFields(session, requestID string) []zap.Field {
	return Strings(FieldSession, session, FieldRequestID, requestID)
}

// LeadFields identifies a lead without logging its profile text.
func LeadFields(name, company string) []zap.Field {
	return Strings(FieldLead, name, FieldCompany, company)
}
