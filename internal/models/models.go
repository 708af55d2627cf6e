package models

import (
	"strings"
	"time"
)

// FriendStatusAccepted marks a friend request that represents a friendship
const FriendStatusAccepted = "accepted"

// Profile represents a user profile
type Profile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  *string   `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	AvatarURL *string   `json:"avatar_url"`
}

// UserCounts holds the activity counters shown next to a profile
type UserCounts struct {
	PostCount   int `json:"post_count"`
	FriendCount int `json:"friend_count"`
	GroupCount  int `json:"group_count"`
}

// UserWithStats is a profile decorated with its counts
type UserWithStats struct {
	Profile
	UserCounts
}

// Post represents a post made by a user
type Post struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Caption         *string   `json:"caption"`
	CreatedAt       time.Time `json:"created_at"`
	DurationSeconds int       `json:"duration_seconds"`
	IsPrivate       bool      `json:"is_private"`
	ThreadID        *string   `json:"thread_id"`
}

// FriendEdge is a row of friend_requests
type FriendEdge struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
}

// Other returns the endpoint of the edge that is not userID.
// Ids compare case-insensitively, as Postgres compares uuids.
func (e FriendEdge) Other(userID string) string {
	if strings.EqualFold(e.FromUserID, userID) {
		return e.ToUserID
	}
	return e.FromUserID
}

// Touches reports whether profileID is either endpoint of the edge
func (e FriendEdge) Touches(profileID string) bool {
	return strings.EqualFold(e.FromUserID, profileID) || strings.EqualFold(e.ToUserID, profileID)
}

// Friend is a resolved friendship. CreatedAt is the time of the edge,
// not of the friend's profile.
type Friend struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  *string   `json:"last_name"`
	AvatarURL *string   `json:"avatar_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupRecord is a row of groups
type GroupRecord struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMembership is a group_members row joined with its group.
// Group is nil when the group row no longer exists.
type GroupMembership struct {
	GroupID string
	Group   *GroupRecord
}

// Group is a group a user belongs to, with its live member count
type Group struct {
	ID          string    `json:"id"`
	Name        *string   `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

// UserDetail is the combined view of a single user
type UserDetail struct {
	Posts   []Post   `json:"posts"`
	Friends []Friend `json:"friends"`
	Groups  []Group  `json:"groups"`
}

// WeeklyMetric is a row of get_weekly_metrics()
type WeeklyMetric struct {
	WeekStart   string  `json:"week_start"`
	TotalPosts  int     `json:"total_posts"`
	TotalHours  float64 `json:"total_hours"`
	UniqueUsers int     `json:"unique_users"`
}

// UserWeeklyMetric is a row of get_user_weekly_metrics()
type UserWeeklyMetric struct {
	UserID    string  `json:"user_id"`
	UserName  string  `json:"user_name"`
	WeekStart string  `json:"week_start"`
	Posts     int     `json:"posts"`
	Hours     float64 `json:"hours"`
}

// Metrics is the combined weekly metrics payload
type Metrics struct {
	Weekly []WeeklyMetric     `json:"weekly"`
	Users  []UserWeeklyMetric `json:"users"`
}

// BetaGroup represents a beta cohort
type BetaGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberProfile is the display part of a profile shown next to a member
type MemberProfile struct {
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// BetaGroupMember is a profile that joined a beta group
type BetaGroupMember struct {
	GroupID  string         `json:"group_id"`
	UserID   string         `json:"user_id"`
	JoinedAt time.Time      `json:"joined_at"`
	Profile  *MemberProfile `json:"profile,omitempty"`
}

// BetaGroupPendingMember is a phone number invited to a beta group that
// has not signed up yet
type BetaGroupPendingMember struct {
	GroupID string    `json:"group_id"`
	Phone   string    `json:"phone"`
	Name    *string   `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// BetaGroupDetail lists the members of one beta group
type BetaGroupDetail struct {
	Members []BetaGroupMember        `json:"members"`
	Pending []BetaGroupPendingMember `json:"pending"`
}
