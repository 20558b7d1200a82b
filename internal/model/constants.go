package model

// Role 회원 역할
type Role string

const (
	RoleChairman Role = "chairman"
	RoleSonai    Role = "sonai" // organizer
	RoleMember   Role = "member"
)

func (r Role) String() string {
	return string(r)
}

// Valid 알려진 역할인지 확인
func (r Role) Valid() bool {
	switch r {
	case RoleChairman, RoleSonai, RoleMember:
		return true
	}
	return false
}

// InRoster 출석 대상(roster) 포함 여부 - chairman은 roster에 들어가지 않는다
func (r Role) InRoster() bool {
	return r == RoleMember || r == RoleSonai
}

// CanScheduleMeetings 모임 생성 권한
func (r Role) CanScheduleMeetings() bool {
	return r == RoleChairman
}

// CanMarkAttendance 출석 기록 권한
func (r Role) CanMarkAttendance() bool {
	return r == RoleSonai || r == RoleChairman
}

// AttendanceStatus 출석 상태 (저장되는 값은 present/absent 뿐)
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	// StatusPending 은 계산 결과로만 존재하며 절대 저장되지 않는다
	StatusPending AttendanceStatus = "pending"
)

func (s AttendanceStatus) String() string {
	return string(s)
}

// Storable 저장 가능한 상태인지 확인 (pending 제외)
func (s AttendanceStatus) Storable() bool {
	return s == StatusPresent || s == StatusAbsent
}
