package model

// Live topics. Writers publish a topic after a successful write and live
// streams re-run their query when their topic fires.
const TopicSessions = "sessions"

// ParticipantsTopic names the participant list of one session
func ParticipantsTopic(sessionID string) string {
	return "participants:" + sessionID
}

// AuthTopic names the auth state of one admin token
func AuthTopic(tokenID string) string {
	return "auth:" + tokenID
}
