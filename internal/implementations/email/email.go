package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesClient interface {
	SendTemplatedEmail(
		ctx context.Context,
		params *ses.SendTemplatedEmailInput,
		optFns ...func(*ses.Options),
	) (*ses.SendTemplatedEmailOutput, error)
}

type EmailSender struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
	passwordResetBaseUrl  url.URL
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	passwordResetTemplate string,
	passwordResetBaseUrl url.URL,
) *EmailSender {
	return newEmailSender(ses.NewFromConfig(awsConfig), sender, passwordResetTemplate, passwordResetBaseUrl)
}

func newEmailSender(
	client sesClient,
	sender string,
	passwordResetTemplate string,
	passwordResetBaseUrl url.URL,
) *EmailSender {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	return &EmailSender{
		ses:                   client,
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
		passwordResetBaseUrl:  passwordResetBaseUrl,
	}
}

func (s *EmailSender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	if u.Email == "" {
		return errors.New("user email is not defined")
	}

	templateParamsBytes, err := json.Marshal(
		passwordResetTemplateParams{
			Name:             u.Name,
			PasswordResetUrl: s.passwordResetBaseUrl.JoinPath(string(token)).String(),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type passwordResetTemplateParams struct {
	Name             string `json:"name"`
	PasswordResetUrl string `json:"passwordResetUrl"`
}
