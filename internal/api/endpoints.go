package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/HikeSafe-Project/mobile/internal/booking"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/forms"
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/schema"
)

// Endpoint paths, relative to the base URL.
const (
	PathLogin            = "auth/login"
	PathMe               = "auth/me"
	PathRegister         = "auth/register-customer"
	PathChangePassword   = "auth/password/update"
	PathUsers            = "users"
	PathProfileImage     = "users/update/image"
	PathUserTransactions = "transactions/user?pagination=false"
	PathTransactions     = "transactions"
)

// MsgInvalidCredentials is shown when the server rejects a login.
const MsgInvalidCredentials = "Invalid email or password!"

type envelope[T any] struct {
	Data T `json:"data"`
}

// LoginResult is the login response payload.
type LoginResult struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// CreatedTransaction is the create-transaction response payload.
type CreatedTransaction struct {
	ID string `json:"id" validate:"required"`
}

// PaymentLink is the create-payment-link response payload.
type PaymentLink struct {
	PaymentURL string `json:"paymentUrl" validate:"required,url"`
}

// call sends a request and returns the validated data payload.
func call[T any](ctx context.Context, c *Client, method, path string, body any, requiresAuth bool) (T, error) {
	var env envelope[T]
	if err := c.Request(ctx, method, path, body, requiresAuth, &env); err != nil {
		var zero T
		return zero, err
	}
	if err := checkSchema(env.Data, "data"); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// checkSchema validates one record and reports the first failing field.
func checkSchema(v any, prefix string) error {
	if violation := schemaViolation(v, prefix); violation != nil {
		return violation
	}
	return nil
}

func schemaViolation(v any, prefix string) *common.SchemaError {
	fields, err := schema.Check(v)
	if err != nil {
		return &common.SchemaError{Field: prefix, Reason: err.Error(), Err: err}
	}
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return &common.SchemaError{Field: prefix + "." + names[0], Reason: fields[names[0]]}
}

// TransactionRecord is one element of the transaction list: a decoded and
// validated Transaction, or the SchemaError that rejected it.
type TransactionRecord struct {
	Err         *common.SchemaError
	Transaction model.Transaction
	Index       int
}

// OK reports whether the record decoded and validated.
func (r TransactionRecord) OK() bool {
	return r.Err == nil
}

// decodeTransactions decodes and validates each element on its own, so one
// malformed record cannot hide the others.
func decodeTransactions(raws []json.RawMessage) []TransactionRecord {
	records := make([]TransactionRecord, len(raws))
	for i, raw := range raws {
		prefix := "data[" + strconv.Itoa(i) + "]"
		records[i].Index = i

		var txn model.Transaction
		if err := json.Unmarshal(raw, &txn); err != nil {
			records[i].Err = &common.SchemaError{Field: prefix, Reason: err.Error(), Err: err}
			continue
		}
		if violation := schemaViolation(txn, prefix); violation != nil {
			records[i].Err = violation
			continue
		}
		records[i].Transaction = txn
	}
	return records
}

// Login exchanges credentials for an access token. A 4xx rejection is
// reported as an AuthError.
func (c *Client) Login(ctx context.Context, form forms.LoginForm) (string, error) {
	result, err := call[LoginResult](ctx, c, http.MethodPost, PathLogin, form, false)
	if err != nil {
		return "", asAuthError(err, MsgInvalidCredentials, false)
	}
	return result.AccessToken, nil
}

// Register creates a customer account.
func (c *Client) Register(ctx context.Context, form forms.RegisterForm) error {
	err := c.Request(ctx, http.MethodPost, PathRegister, form, false, nil)
	if err != nil {
		return asAuthError(err, "Registration failed", true)
	}
	return nil
}

// asAuthError turns a client error response into an AuthError. With
// useServer the server's "message" replaces fallback when present.
func asAuthError(err error, fallback string, useServer bool) error {
	var httpErr *common.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status >= http.StatusInternalServerError {
		return err
	}
	msg := fallback
	if useServer {
		if server := serverMessage(httpErr.Body); server != "" {
			msg = server
		}
	}
	return &common.AuthError{Message: msg, Err: err}
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (model.Profile, error) {
	return call[model.Profile](ctx, c, http.MethodGet, PathMe, nil, true)
}

// ChangePassword updates the account password.
func (c *Client) ChangePassword(ctx context.Context, form forms.ChangePasswordForm) error {
	return c.Request(ctx, http.MethodPatch, PathChangePassword, form, true, nil)
}

// UpdateProfile patches the profile fields that are set on form.
func (c *Client) UpdateProfile(ctx context.Context, form forms.ProfileForm) error {
	return c.Request(ctx, http.MethodPatch, PathUsers, form, true, nil)
}

// UpdateProfileImage uploads a new avatar as the multipart field "image".
func (c *Client) UpdateProfileImage(ctx context.Context, filename string, image io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPut, PathProfileImage, mw.FormDataContentType(), &buf, true, nil)
}

// ListTransactionRecords fetches the signed-in user's transactions with a
// per-record decode result. Only a response that is not a list at all is an
// error.
func (c *Client) ListTransactionRecords(ctx context.Context) ([]TransactionRecord, error) {
	var env envelope[[]json.RawMessage]
	if err := c.Request(ctx, http.MethodGet, PathUserTransactions, nil, true, &env); err != nil {
		return nil, err
	}
	return decodeTransactions(env.Data), nil
}

// ListTransactions returns the transactions that decoded and validated.
// Rejected records are logged and left out.
func (c *Client) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	records, err := c.ListTransactionRecords(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		if !rec.OK() {
			c.logger.Warn("Skipping malformed transaction",
				"index", rec.Index,
				"field", rec.Err.Field,
				"reason", rec.Err.Reason)
			continue
		}
		list = append(list, rec.Transaction)
	}
	return list, nil
}

// CreateTransaction submits a booking and returns the new transaction id.
func (c *Client) CreateTransaction(ctx context.Context, req booking.Request) (string, error) {
	created, err := call[CreatedTransaction](ctx, c, http.MethodPost, PathTransactions, req, true)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// GetTransaction fetches one transaction with its tickets and buyer.
func (c *Client) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	return call[model.Transaction](ctx, c, http.MethodGet, PathTransactions+"/"+url.PathEscape(id), nil, true)
}

// CreatePaymentLink asks the server for a payment page for an unpaid
// transaction.
func (c *Client) CreatePaymentLink(ctx context.Context, id string) (string, error) {
	link, err := call[PaymentLink](ctx, c, http.MethodPost, "payments/"+url.PathEscape(id)+"/create-payment-link", nil, true)
	if err != nil {
		return "", err
	}
	return link.PaymentURL, nil
}
