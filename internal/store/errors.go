package store

import "errors"

var (
	// ErrInvalidKey возникает при пустом ключе
	ErrInvalidKey = errors.New("invalid store key")
)

// StoreError - структурированная ошибка хранилища
type StoreError struct {
	Op  string // Операция: "get", "set", "exists", "ttl"
	Key string // Ключ
	Err error  // Оригинальная ошибка
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return "store " + e.Op + " '" + e.Key + "': " + e.Err.Error()
	}
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op, key string, err error) error {
	return &StoreError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// IsStoreError проверяет является ли ошибка ошибкой хранилища
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
