package mailer

import (
	"errors"
	"fmt"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPermanentOn5xx(t *testing.T) {
	err := classify(fmt.Errorf("smtp RCPT: %w", &textproto.Error{Code: 550, Msg: "mailbox unavailable"}))
	assert.True(t, IsPermanent(err))
}

func TestClassifyRetryableOn4xx(t *testing.T) {
	err := classify(fmt.Errorf("smtp DATA: %w", &textproto.Error{Code: 421, Msg: "service not available"}))
	assert.False(t, IsPermanent(err))
}

func TestClassifyRetryableOnNetworkError(t *testing.T) {
	err := classify(errors.New("dialing smtp server: connection refused"))
	assert.False(t, IsPermanent(err))
}

func TestClassifyPermanentOnSenderIdentity(t *testing.T) {
	err := classify(errors.New("smtp MAIL: sender identity not verified"))
	assert.True(t, IsPermanent(err))
}

func TestBuildMessageContainsCode(t *testing.T) {
	m := &SMTP{username: "club@example.com", senderName: "SportsClub"}
	msg := string(m.buildMessage("user@example.com", "482913"))

	assert.Contains(t, msg, "To: user@example.com")
	assert.Contains(t, msg, "Subject: Verify Your Email Address")
	assert.Contains(t, msg, "482913")
}
