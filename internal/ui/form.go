package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/charmbracelet/huh"
)

// ErrFormAborted is returned when the user leaves the form without finishing.
var ErrFormAborted = errors.New("form aborted")

var fieldTitles = map[wallet.Field]string{
	wallet.FieldWalletName:  "Wallet Name",
	wallet.FieldNetworkID:   "Network ID",
	wallet.FieldGasPrice:    "Gas Price",
	wallet.FieldGasLimit:    "Gas Limit",
	wallet.FieldAccountName: "Account Name",
	wallet.FieldSigningKey:  "Signing Key",
}

var fieldPlaceholders = map[wallet.Field]string{
	wallet.FieldWalletName:  "my-wallet",
	wallet.FieldNetworkID:   wallet.DefaultNetworkID,
	wallet.FieldGasPrice:    wallet.DefaultGasPrice,
	wallet.FieldGasLimit:    wallet.DefaultGasLimit,
	wallet.FieldAccountName: "k:<public key>",
	wallet.FieldSigningKey:  "64 hex characters",
}

// RunWalletForm edits f interactively. The wallet name is asked first so that
// choosing an existing wallet fills in the remaining fields.
func RunWalletForm(f *wallet.Form) error {
	name := f.Get(wallet.FieldWalletName)
	if err := run(WalletNameForm(f, &name)); err != nil {
		return err
	}
	f.SelectWallet(strings.TrimSpace(name))

	values := DraftValues(f)
	if err := run(WalletDetailsForm(f, values)); err != nil {
		return err
	}
	return ApplyDraft(f, values)
}

func run(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrFormAborted
		}
		return fmt.Errorf("form: %w", err)
	}
	return nil
}

// WalletNameForm asks for the wallet name, suggesting known wallets.
func WalletNameForm(f *wallet.Form, name *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			fieldInput(f, wallet.FieldWalletName, name).
				Description("Pick an existing wallet to load it, or type a new name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("wallet name is required")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

// WalletDetailsForm edits the remaining draft fields held in values.
func WalletDetailsForm(f *wallet.Form, values map[wallet.Field]*string) *huh.Form {
	var inputs []huh.Field
	for _, field := range wallet.Fields {
		if field == wallet.FieldWalletName {
			continue
		}
		in := fieldInput(f, field, values[field])
		switch field {
		case wallet.FieldGasPrice:
			in = in.Validate(ValidateGas)
		case wallet.FieldGasLimit:
			in = in.Validate(ValidateGasLimit)
		case wallet.FieldSigningKey:
			in = in.Description("Public key; import its secret with `pactwallet keys import`")
		}
		inputs = append(inputs, in)
	}
	return huh.NewForm(huh.NewGroup(inputs...)).WithTheme(huh.ThemeCatppuccin())
}

func fieldInput(f *wallet.Form, field wallet.Field, v *string) *huh.Input {
	return huh.NewInput().
		Title(fieldTitles[field]).
		Placeholder(fieldPlaceholders[field]).
		Suggestions(f.Suggestions(field)).
		Value(v)
}

// DraftValues copies the form's draft into editable values.
func DraftValues(f *wallet.Form) map[wallet.Field]*string {
	values := make(map[wallet.Field]*string, len(wallet.Fields))
	for _, field := range wallet.Fields {
		v := f.Get(field)
		values[field] = &v
	}
	return values
}

// ApplyDraft writes edited values back to the form.
func ApplyDraft(f *wallet.Form, values map[wallet.Field]*string) error {
	for _, field := range wallet.Fields {
		v, ok := values[field]
		if !ok || v == nil {
			continue
		}
		if err := f.Set(field, strings.TrimSpace(*v)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGas accepts positive decimal numbers.
func ValidateGas(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

// ValidateGasLimit accepts whole numbers up to wallet.MaxGasLimit.
func ValidateGasLimit(s string) error {
	if _, err := wallet.ParseGasLimit(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a whole number between 1 and %d", wallet.MaxGasLimit)
	}
	return nil
}
