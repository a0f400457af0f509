package ticket

import (
	"regexp"
	"strconv"

	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
)

var ticketChannelRe = regexp.MustCompile(`^ticket-(\d+)$`)

// ParseChannelName extracts the ticket number from a "ticket-<number>"
// channel name. ok is false for any other channel.
func ParseChannelName(name string) (number int, ok bool) {
	m := ticketChannelRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func FormatChannelName(number int) string {
	return constants.TicketChannelPrefix + strconv.Itoa(number)
}
