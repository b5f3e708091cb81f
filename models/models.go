package models

// All lists every model for migrations
func All() []any {
	return []any{
		&Company{},
		&User{},
		&Profile{},
		&Client{},
		&Service{},
		&Professional{},
		&Appointment{},
		&Attention{},
		&CommissionRule{},
		&Product{},
		&NoticeLog{},
	}
}
