package band

import "errors"

var (
	ErrNotFound        = errors.New("band not found")
	ErrForbidden       = errors.New("not a member of this band")
	ErrLeaderRequired  = errors.New("action requires the leader role")
	ErrInvalidJoinCode = errors.New("invalid join code")
	ErrAlreadyMember   = errors.New("already a member of this band")
	ErrNotAMember      = errors.New("user is not a member of this band")
	ErrLastLeader      = errors.New("a band must keep at least one leader")
)
