package domain

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPersonaNotFound = errors.New("persona not found")
var ErrInvalidExample = errors.New("few-shot example must carry user or ai text")
var ErrChatNotFound = errors.New("chat not found")
var ErrForbidden = errors.New("access forbidden")

// ErrPersonaIntegrity signals that a chat references a persona that no longer
// exists. Chats never outlive their persona, so hitting this is a bug, not a
// user error.
var ErrPersonaIntegrity = errors.New("chat references missing persona")
