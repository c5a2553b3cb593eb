// Package suppression wraps the SES v2 account-level suppression list.
package suppression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/suppression-api/internal/config"
	"github.com/ignite/suppression-api/internal/logging"
)

// ErrNotSuppressed is returned by Remove when the address is not on the
// suppression list.
var ErrNotSuppressed = errors.New("email is not in the suppression list")

// Status describes whether an address is on the suppression list.
type Status struct {
	Email          string
	Suppressed     bool
	Reason         string // BOUNCE or COMPLAINT when suppressed
	LastUpdateTime time.Time
}

// Removal describes a completed removal, including what the entry looked
// like before it was deleted.
type Removal struct {
	Email                  string
	PreviousReason         string
	PreviousLastUpdateTime time.Time
}

// sesAPI is the slice of the SES v2 client this package uses.
type sesAPI interface {
	GetSuppressedDestination(ctx context.Context, params *sesv2.GetSuppressedDestinationInput, optFns ...func(*sesv2.Options)) (*sesv2.GetSuppressedDestinationOutput, error)
	DeleteSuppressedDestination(ctx context.Context, params *sesv2.DeleteSuppressedDestinationInput, optFns ...func(*sesv2.Options)) (*sesv2.DeleteSuppressedDestinationOutput, error)
}

// Client manages SES suppression-list lookups and removals.
type Client struct {
	api    sesAPI
	region string
}

// NewClient creates a new suppression client from static credentials.
func NewClient(ctx context.Context, cfg appconfig.AWSConfig) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"", // session token (empty for static creds)
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Client{
		api:    sesv2.NewFromConfig(awsCfg),
		region: cfg.Region,
	}, nil
}

// Region returns the region the client talks to.
func (c *Client) Region() string {
	return c.region
}

// Check reports whether email is on the suppression list. A missing entry is
// a normal outcome, not an error.
func (c *Client) Check(ctx context.Context, email string) (*Status, error) {
	logger := logging.Logger("suppression")
	logger.DebugContext(ctx, "checking suppression status", "email", email)

	out, err := c.api.GetSuppressedDestination(ctx, &sesv2.GetSuppressedDestinationInput{
		EmailAddress: aws.String(email),
	})
	if err != nil {
		var nfe *types.NotFoundException
		if errors.As(err, &nfe) {
			return &Status{Email: email, Suppressed: false}, nil
		}
		return nil, fmt.Errorf("checking suppression for %s: %w", email, err)
	}

	sd := out.SuppressedDestination
	status := &Status{
		Email:          email,
		Suppressed:     true,
		Reason:         string(sd.Reason),
		LastUpdateTime: aws.ToTime(sd.LastUpdateTime),
	}
	logger.InfoContext(ctx, "email is suppressed", "email", email, "reason", status.Reason)
	return status, nil
}

// Remove deletes email from the suppression list. It checks first so the
// caller gets back the previous reason and timestamp, and ErrNotSuppressed
// when there was nothing to remove.
func (c *Client) Remove(ctx context.Context, email string) (*Removal, error) {
	status, err := c.Check(ctx, email)
	if err != nil {
		return nil, err
	}
	if !status.Suppressed {
		return nil, fmt.Errorf("%w: %s", ErrNotSuppressed, email)
	}

	if _, err := c.api.DeleteSuppressedDestination(ctx, &sesv2.DeleteSuppressedDestinationInput{
		EmailAddress: aws.String(email),
	}); err != nil {
		return nil, fmt.Errorf("removing suppression for %s: %w", email, err)
	}

	logging.Logger("suppression").InfoContext(ctx, "suppression removed",
		"email", email, "previous_reason", status.Reason)

	return &Removal{
		Email:                  email,
		PreviousReason:         status.Reason,
		PreviousLastUpdateTime: status.LastUpdateTime,
	}, nil
}
