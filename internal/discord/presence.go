package discord

import (
	"math/rand/v2"

	"github.com/bwmarrin/discordgo"
)

// DefaultActivities are the custom statuses shown when none are configured.
var DefaultActivities = []string{"Having a bad time"}

// Presence builds an online status showing one of activities at random. An
// empty list clears the activity.
func Presence(activities []string) discordgo.UpdateStatusData {
	status := discordgo.UpdateStatusData{Status: string(discordgo.StatusOnline)}
	if len(activities) == 0 {
		return status
	}
	status.Activities = []*discordgo.Activity{{
		Name:  "_",
		Type:  discordgo.ActivityTypeCustom,
		State: activities[rand.IntN(len(activities))],
	}}
	return status
}

// UpdatePresence sends a fresh random presence over the gateway.
func (a *Adapter) UpdatePresence(activities []string) error {
	return a.session.UpdateStatusComplex(Presence(activities))
}
