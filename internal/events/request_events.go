package events

const RequestChangedEventName = "request.changed"

// RequestChangedEvent публикуется после коммита любой мутации заявки.
// EquipmentIDs - оборудование, чей счётчик открытых заявок мог измениться.
type RequestChangedEvent struct {
	Action       string
	RequestID    uint64
	Reference    string
	EquipmentIDs []uint64
	ActorID      uint64
}

func (e RequestChangedEvent) Name() string {
	return RequestChangedEventName
}
