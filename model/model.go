package model

// Tables lists the relational entities in migration order.
func Tables() []interface{} {
	return []interface{}{
		&Employee{},
		&AttendanceRecord{},
		&ActiveCode{},
		&LeaveRequest{},
		&FaceDescriptor{},
	}
}
