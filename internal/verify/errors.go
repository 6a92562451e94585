package verify

import "errors"

// ErrVerificationFailed is wrapped into a VerificationResult.Error when
// an action appeared to run but its post-state contradicts intent.
var ErrVerificationFailed = errors.New("verification failed")
