package services

// Outcome - результат мутации. AuditErr не nil, если основная операция
// зафиксирована, а запись в журнал аудита не удалась (деградированный успех).
type Outcome[T any] struct {
	Data     T
	AuditErr error
}

func (o Outcome[T]) Degraded() bool {
	return o.AuditErr != nil
}
