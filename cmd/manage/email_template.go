package main

import (
	"context"
	"medportal/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/spf13/cobra"
)

// The placeholders match the template data sent by the email sender.
const (
	passwordResetSubject = "Reset your password"
	passwordResetHTML    = `<p>Hello {{name}},</p>
<p>Follow <a href="{{passwordResetUrl}}">this link</a> to choose a new password.</p>
<p>If you did not ask for a password reset, ignore this email.</p>`
	passwordResetText = `Hello {{name}},

Open {{passwordResetUrl}} to choose a new password.

If you did not ask for a password reset, ignore this email.`
)

func NewEmailTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email-template",
		Short: "Manage the Amazon SES password reset template",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the password reset template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSES(cmd.Context(), func(svc *ses.Client, cfg *config.AwsConfig) error {
				_, err := svc.CreateTemplate(cmd.Context(), &ses.CreateTemplateInput{
					Template: &types.Template{
						TemplateName: aws.String(cfg.PasswordResetEmailTemplate),
						SubjectPart:  aws.String(passwordResetSubject),
						HtmlPart:     aws.String(passwordResetHTML),
						TextPart:     aws.String(passwordResetText),
					},
				})
				if err != nil {
					return err
				}
				cmd.Printf("Template %s created\n", cfg.PasswordResetEmailTemplate)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete the password reset template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSES(cmd.Context(), func(svc *ses.Client, cfg *config.AwsConfig) error {
				_, err := svc.DeleteTemplate(cmd.Context(), &ses.DeleteTemplateInput{
					TemplateName: aws.String(cfg.PasswordResetEmailTemplate),
				})
				if err != nil {
					return err
				}
				cmd.Printf("Template %s deleted\n", cfg.PasswordResetEmailTemplate)
				return nil
			})
		},
	})
	return cmd
}

func withSES(ctx context.Context, run func(svc *ses.Client, cfg *config.AwsConfig) error) error {
	cfg, err := config.LoadAws()
	if err != nil {
		return err
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(
		ctx,
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		return err
	}
	return run(ses.NewFromConfig(awsCfg), cfg)
}
