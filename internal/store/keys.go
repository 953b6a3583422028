package store

// KeyPrefix - префиксы для разных типов ключей
type KeyPrefix string

const (
	PrefixLink      KeyPrefix = "url" // url:shortCode
	PrefixRateLimit KeyPrefix = "rl"  // rl:clientID
)

// KeyBuilder - построитель ключей хранилища
type KeyBuilder struct {
	namespace string // Опциональный namespace для multi-tenancy
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

// Build создает ключ с префиксом и опциональным namespace
func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// Link создает ключ записи ссылки по короткому коду
func (k *KeyBuilder) Link(shortCode string) string {
	return k.Build(PrefixLink, shortCode)
}

// RateLimit создает ключ счетчика запросов клиента
func (k *KeyBuilder) RateLimit(clientID string) string {
	return k.Build(PrefixRateLimit, clientID)
}
