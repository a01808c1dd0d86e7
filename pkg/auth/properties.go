package auth

// ContextProperties is the flat persisted form of a UserContext, produced
// by Properties and accepted by CreateUserContextFromProperties. The JSON
// keys are a stable contract: a session saved by one process must restore
// in another.
type ContextProperties struct {
	Host            string `json:"host"`
	UserID          string `json:"user_id"`
	UserKey         string `json:"user_key"`
	EncryptRequests bool   `json:"encrypt_requests"`
	ServerSkew      int64  `json:"server_skew"`
	Anonymous       bool   `json:"anonymous"`
}
