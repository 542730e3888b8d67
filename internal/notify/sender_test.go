package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSESInputCarriesHTMLBody(t *testing.T) {
	in := sesInput(Email{From: "hr@acme.test", To: "s@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	assert.Equal(t, "hr@acme.test", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"s@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>x</p>", aws.ToString(in.Content.Simple.Body.Html.Data))
}

func TestBuildMailMsgValidatesAddresses(t *testing.T) {
	_, err := buildMailMsg(Email{From: "not an address", To: "s@example.com"})
	assert.Error(t, err)

	msg, err := buildMailMsg(Email{From: "hr@acme.test", To: "s@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.NotNil(t, msg)
}

func TestNewSenderDefaultsToLog(t *testing.T) {
	s, err := NewSender(context.Background(), SenderConfig{})
	require.NoError(t, err)
	assert.IsType(t, LogSender{}, s)

	_, err = NewSender(context.Background(), SenderConfig{Kind: "pigeon"})
	assert.Error(t, err)
}
