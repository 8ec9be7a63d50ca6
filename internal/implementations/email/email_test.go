package email

import (
	"context"
	"errors"
	"medportal/internal/core/domain/user"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs      []*ses.SendTemplatedEmailInput
	returnError bool
}

func (f *fakeSES) SendTemplatedEmail(
	ctx context.Context,
	params *ses.SendTemplatedEmailInput,
	optFns ...func(*ses.Options),
) (*ses.SendTemplatedEmailOutput, error) {
	if f.returnError {
		return nil, errors.New("ses is down")
	}
	f.inputs = append(f.inputs, params)
	return &ses.SendTemplatedEmailOutput{MessageId: aws.String("id")}, nil
}

func newTestSender(client *fakeSES) *EmailSender {
	baseUrl, err := url.Parse("http://localhost:3000/reset-password")
	if err != nil {
		panic(err)
	}
	return newEmailSender(client, "noreply@medportal.test", "password-reset", *baseUrl)
}

func TestSendPasswordResetToken(t *testing.T) {
	client := &fakeSES{}
	sender := newTestSender(client)

	err := sender.SendPasswordResetToken(
		context.Background(),
		user.User{ID: 1, Name: "Alice", Email: "a@x.com"},
		user.PasswordResetToken("abc123"),
	)

	require.Nil(t, err)
	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	require.Equal(t, "noreply@medportal.test", *input.Source)
	require.Equal(t, []string{"a@x.com"}, input.Destination.ToAddresses)
	require.Equal(t, "password-reset", *input.Template)
	require.JSONEq(
		t,
		`{"name": "Alice", "passwordResetUrl": "http://localhost:3000/reset-password/abc123"}`,
		*input.TemplateData,
	)
}

func TestSendPasswordResetTokenError(t *testing.T) {
	sender := newTestSender(&fakeSES{returnError: true})

	err := sender.SendPasswordResetToken(
		context.Background(),
		user.User{ID: 1, Email: "a@x.com"},
		user.PasswordResetToken("abc123"),
	)
	require.NotNil(t, err)
}

func TestSendPasswordResetTokenWithoutEmail(t *testing.T) {
	client := &fakeSES{}
	err := newTestSender(client).SendPasswordResetToken(context.Background(), user.User{ID: 1}, "abc123")

	require.NotNil(t, err)
	require.Empty(t, client.inputs)
}
