package proto

import "fmt"

// Acknowledgment lines sent back to the issuing client.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
	StatusBye   = "BYE"
)

// RoomMessage formats a room broadcast, delivered to every member of the
// sender's room including the sender.
func RoomMessage(nick, text string) string {
	return fmt.Sprintf("MESSAGE %s %s", nick, text)
}

// Joined formats the arrival notice sent to a room's existing members.
func Joined(nick string) string {
	return fmt.Sprintf("JOINED %s", nick)
}

// Left formats the departure notice sent to a room's remaining members.
func Left(nick string) string {
	return fmt.Sprintf("LEFT %s", nick)
}

// NewNick formats the rename notice sent to the renamer's roommates.
func NewNick(oldNick, newNick string) string {
	return fmt.Sprintf("NEWNICK %s %s", oldNick, newNick)
}

// Private formats a direct message, delivered to the addressed session only.
func Private(from, text string) string {
	return fmt.Sprintf("PRIVATE %s %s", from, text)
}
