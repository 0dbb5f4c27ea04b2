package memory

import "context"

// TxManager выполняет функции без транзакции: каждая операция Store атомарна сама по себе,
// а эксклюзивность слота проверяется в Create под общим мьютексом.
type TxManager struct{}

// Do выполняет fn
func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// DoSerializable выполняет fn
func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// DoReadOnly выполняет fn
func (TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
