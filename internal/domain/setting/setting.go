package setting

import (
	"fmt"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
)

// GuildSettings is the per-guild configuration read by every other component.
type GuildSettings struct {
	guildID               string
	staffRoleIDs          []string
	ticketCategoryID      string
	transcriptChannelID   string
	logChannelID          string
	verifiedRoleID        string
	maxOpenTicketsPerUser int
	analyticsEnabled      bool
	levelingEnabled       bool
	createdAt             time.Time
	updatedAt             time.Time
}

// DefaultGuildSettings is what a guild gets before anyone configures it.
func DefaultGuildSettings(guildID string) *GuildSettings {
	now := biztime.NowUTC()
	return &GuildSettings{
		guildID:               guildID,
		staffRoleIDs:          []string{},
		maxOpenTicketsPerUser: constants.DefaultMaxOpenTickets,
		analyticsEnabled:      true,
		createdAt:             now,
		updatedAt:             now,
	}
}

// ReconstructGuildSettings reconstructs settings from the persistence layer
func ReconstructGuildSettings(
	guildID string,
	staffRoleIDs []string,
	ticketCategoryID string,
	transcriptChannelID string,
	logChannelID string,
	verifiedRoleID string,
	maxOpenTicketsPerUser int,
	analyticsEnabled bool,
	levelingEnabled bool,
	createdAt, updatedAt time.Time,
) *GuildSettings {
	if staffRoleIDs == nil {
		staffRoleIDs = []string{}
	}
	return &GuildSettings{
		guildID:               guildID,
		staffRoleIDs:          staffRoleIDs,
		ticketCategoryID:      ticketCategoryID,
		transcriptChannelID:   transcriptChannelID,
		logChannelID:          logChannelID,
		verifiedRoleID:        verifiedRoleID,
		maxOpenTicketsPerUser: maxOpenTicketsPerUser,
		analyticsEnabled:      analyticsEnabled,
		levelingEnabled:       levelingEnabled,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

func (s *GuildSettings) GuildID() string             { return s.guildID }
func (s *GuildSettings) TicketCategoryID() string    { return s.ticketCategoryID }
func (s *GuildSettings) TranscriptChannelID() string { return s.transcriptChannelID }
func (s *GuildSettings) LogChannelID() string        { return s.logChannelID }
func (s *GuildSettings) VerifiedRoleID() string      { return s.verifiedRoleID }
func (s *GuildSettings) MaxOpenTicketsPerUser() int  { return s.maxOpenTicketsPerUser }
func (s *GuildSettings) AnalyticsEnabled() bool      { return s.analyticsEnabled }
func (s *GuildSettings) LevelingEnabled() bool       { return s.levelingEnabled }
func (s *GuildSettings) CreatedAt() time.Time        { return s.createdAt }
func (s *GuildSettings) UpdatedAt() time.Time        { return s.updatedAt }

func (s *GuildSettings) StaffRoleIDs() []string {
	out := make([]string, len(s.staffRoleIDs))
	copy(out, s.staffRoleIDs)
	return out
}

// IsStaff reports whether any of roleIDs is a configured staff role.
func (s *GuildSettings) IsStaff(roleIDs []string) bool {
	if len(s.staffRoleIDs) == 0 {
		return false
	}
	for _, r := range roleIDs {
		for _, staff := range s.staffRoleIDs {
			if r == staff {
				return true
			}
		}
	}
	return false
}

// Patch carries optional changes; nil fields are left untouched.
type Patch struct {
	StaffRoleIDs          *[]string
	TicketCategoryID      *string
	TranscriptChannelID   *string
	LogChannelID          *string
	VerifiedRoleID        *string
	MaxOpenTicketsPerUser *int
	AnalyticsEnabled      *bool
	LevelingEnabled       *bool
}

// Apply merges p into s. Duplicate and empty role ids are dropped.
func (s *GuildSettings) Apply(p Patch) error {
	if p.MaxOpenTicketsPerUser != nil && *p.MaxOpenTicketsPerUser < 1 {
		return fmt.Errorf("%w: max open tickets per user must be at least 1", ErrInvalidSettings)
	}

	if p.StaffRoleIDs != nil {
		seen := make(map[string]struct{}, len(*p.StaffRoleIDs))
		roles := make([]string, 0, len(*p.StaffRoleIDs))
		for _, r := range *p.StaffRoleIDs {
			if r == "" {
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			roles = append(roles, r)
		}
		s.staffRoleIDs = roles
	}
	if p.TicketCategoryID != nil {
		s.ticketCategoryID = *p.TicketCategoryID
	}
	if p.TranscriptChannelID != nil {
		s.transcriptChannelID = *p.TranscriptChannelID
	}
	if p.LogChannelID != nil {
		s.logChannelID = *p.LogChannelID
	}
	if p.VerifiedRoleID != nil {
		s.verifiedRoleID = *p.VerifiedRoleID
	}
	if p.MaxOpenTicketsPerUser != nil {
		s.maxOpenTicketsPerUser = *p.MaxOpenTicketsPerUser
	}
	if p.AnalyticsEnabled != nil {
		s.analyticsEnabled = *p.AnalyticsEnabled
	}
	if p.LevelingEnabled != nil {
		s.levelingEnabled = *p.LevelingEnabled
	}
	s.updatedAt = biztime.NowUTC()
	return nil
}
