package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/HikeSafe-Project/mobile/internal/booking"
	"github.com/HikeSafe-Project/mobile/internal/forms"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

// ErrInputTerminated is returned when the input stream ends mid prompt.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks the line-based questions the commands need when they are
// not run from the full screen UI.
type Prompter struct {
	writer io.Writer
	reader *LineReader
	// passwordFD is the terminal to read hidden input from, or -1 when
	// input is not a terminal.
	passwordFD int
}

// NewPrompter creates a prompter. A nil reader or writer falls back to
// stdin or stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	fd := -1
	if reader == nil {
		reader = os.Stdin
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fd = int(os.Stdin.Fd())
		}
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader:     NewLineReader(reader),
		writer:     writer,
		passwordFD: fd,
	}
}

// Ask prompts for a free text answer. A required answer is asked again
// until it is non-empty.
func (p *Prompter) Ask(ctx context.Context, prompt string, required bool) (string, error) {
	for {
		if err := p.write(FormatPrompt(prompt)); err != nil {
			return "", err
		}

		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if answer != "" || !required {
			return answer, nil
		}

		p.println(FormatError(prompt + " cannot be empty. Please try again."))
	}
}

// AskSecret prompts for a value without echoing it when input is a terminal.
func (p *Prompter) AskSecret(ctx context.Context, prompt string) (string, error) {
	if p.passwordFD < 0 {
		return p.Ask(ctx, prompt, true)
	}

	if err := p.write(FormatPrompt(prompt)); err != nil {
		return "", err
	}
	secret, err := term.ReadPassword(p.passwordFD)
	p.println("")
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
	}
	return string(secret), nil
}

// Choice prompts until the answer is one of choices. Matching ignores case.
func (p *Prompter) Choice(ctx context.Context, prompt string, choices []string) (string, error) {
	label := fmt.Sprintf("%s [%s]", prompt, strings.Join(choices, "/"))
	for {
		answer, err := p.Ask(ctx, label, false)
		if err != nil {
			return "", err
		}

		for _, valid := range choices {
			if strings.EqualFold(answer, valid) {
				return valid, nil
			}
		}

		p.println(FormatError("Invalid choice. Please try again."))
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := p.Choice(ctx, prompt, []string{"y", "n"})
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

// Credentials prompts for the login form.
func (p *Prompter) Credentials(ctx context.Context) (forms.LoginForm, error) {
	email, err := p.Ask(ctx, "Email", true)
	if err != nil {
		return forms.LoginForm{}, err
	}
	password, err := p.AskSecret(ctx, "Password")
	if err != nil {
		return forms.LoginForm{}, err
	}
	return forms.LoginForm{Email: email, Password: password}, nil
}

// Registration prompts for the registration form.
func (p *Prompter) Registration(ctx context.Context) (forms.RegisterForm, error) {
	var form forms.RegisterForm
	var err error

	if form.FullName, err = p.Ask(ctx, "Full name", true); err != nil {
		return form, err
	}
	if form.Email, err = p.Ask(ctx, "Email", true); err != nil {
		return form, err
	}
	if form.PhoneNumber, err = p.Ask(ctx, "Phone number", false); err != nil {
		return form, err
	}
	if form.Password, err = p.AskSecret(ctx, "Password"); err != nil {
		return form, err
	}
	if form.ConfirmPassword, err = p.AskSecret(ctx, "Confirm password"); err != nil {
		return form, err
	}
	return form, nil
}

// PasswordChange prompts for the change-password form.
func (p *Prompter) PasswordChange(ctx context.Context) (forms.ChangePasswordForm, error) {
	var form forms.ChangePasswordForm
	var err error

	if form.Password, err = p.AskSecret(ctx, "Current password"); err != nil {
		return form, err
	}
	if form.NewPassword, err = p.AskSecret(ctx, "New password"); err != nil {
		return form, err
	}
	if form.ConfirmPassword, err = p.AskSecret(ctx, "Confirm new password"); err != nil {
		return form, err
	}
	return form, nil
}

// FillDraft walks the user through the booking form: the hiking dates and
// then one hiker at a time until they stop adding.
func (p *Prompter) FillDraft(ctx context.Context, draft *booking.Draft) error {
	p.println(FormatTitle("New booking"))

	var err error
	if draft.StartDate, err = p.askDate(ctx, "Start date (YYYY-MM-DD)"); err != nil {
		return err
	}
	if draft.EndDate, err = p.askDate(ctx, "End date (YYYY-MM-DD)"); err != nil {
		return err
	}

	for {
		p.println("")
		p.println(BoldStyle.Render(fmt.Sprintf("Hiker #%d", draft.Len()+1)))

		if err := p.fillHiker(ctx, draft); err != nil {
			return err
		}

		more, err := p.Confirm(ctx, "Add another hiker?")
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	p.println("")
	p.println(HikerSummary(draft.Hikers()))
	return nil
}

func (p *Prompter) fillHiker(ctx context.Context, draft *booking.Draft) error {
	hiker := draft.AddHiker()

	questions := []struct {
		field  string
		prompt string
	}{
		{booking.FieldName, "Name"},
		{booking.FieldAddress, "Address"},
		{booking.FieldPhoneNumber, "Phone number"},
	}
	for _, q := range questions {
		answer, err := p.Ask(ctx, q.prompt, true)
		if err != nil {
			return err
		}
		if err := draft.UpdateHiker(hiker.ID, q.field, answer); err != nil {
			return err
		}
	}

	idType, err := p.Choice(ctx, "Identification type", []string{
		string(model.IdentificationNIK),
		string(model.IdentificationPassport),
	})
	if err != nil {
		return err
	}
	if err := draft.UpdateHiker(hiker.ID, booking.FieldIdentificationType, idType); err != nil {
		return err
	}

	number, err := p.Ask(ctx, "Identification number", true)
	if err != nil {
		return err
	}
	return draft.UpdateHiker(hiker.ID, booking.FieldIdentificationNumber, number)
}

func (p *Prompter) askDate(ctx context.Context, prompt string) (model.Date, error) {
	for {
		raw, err := p.Ask(ctx, prompt, true)
		if err != nil {
			return model.Date{}, err
		}
		date, err := model.ParseDate(raw)
		if err == nil {
			return date, nil
		}
		p.println(FormatError("Use the YYYY-MM-DD format."))
	}
}

// HikerSummary renders the hikers on a draft with the tier each one pays.
func HikerSummary(hikers []model.HikerDraft) string {
	if len(hikers) == 0 {
		return SubtleStyle.Render("No hikers added yet.")
	}

	var b strings.Builder
	for i, h := range hikers {
		tier := model.TicketTypeFor(h.IdentificationType).Label()
		fmt.Fprintf(&b, "%d. %s  %s %s  %s\n",
			i+1,
			BoldStyle.Render(h.Name),
			h.IdentificationType,
			h.IdentificationNumber,
			SubtleStyle.Render(tier),
		)
	}
	return RenderBox(TicketIcon+" Hikers", strings.TrimRight(b.String(), "\n"))
}

// Spin runs fn while an indeterminate progress spinner is shown.
func (p *Prompter) Spin(ctx context.Context, description string, fn func(context.Context) error) error {
	return Spin(ctx, p.writer, description, fn)
}

// Spin runs fn while an indeterminate progress spinner is drawn on w.
func Spin(ctx context.Context, w io.Writer, description string, fn func(context.Context) error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[green][bold]"+description+"[reset]"),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := bar.Add(1); err != nil {
					slog.Debug("Failed to advance spinner", "error", err)
				}
			}
		}
	}()

	err := fn(ctx)
	close(done)
	<-stopped
	if finishErr := bar.Finish(); finishErr != nil {
		slog.Debug("Failed to finish spinner", "error", finishErr)
	}
	return err
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrInputTerminated
		}
		return "", err
	}
	return line, nil
}

func (p *Prompter) write(s string) error {
	if _, err := fmt.Fprint(p.writer, s); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	return nil
}

func (p *Prompter) println(s string) {
	if _, err := fmt.Fprintln(p.writer, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}
