package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
)

func newContactCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts",
	}

	cmd.AddCommand(
		newContactAddCmd(app),
		newContactListCmd(app),
		newContactDeactivateCmd(app),
		newContactRemoveCmd(app),
	)

	return cmd
}

func newContactAddCmd(app *App) *cobra.Command {
	var ctype, email, phone, notes string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Contact{
				Name:  args[0],
				Type:  domain.ContactType(ctype),
				Email: email,
				Phone: phone,
				Notes: notes,
			}
			if err := app.Contacts.Create(context.Background(), c); err != nil {
				return err
			}
			fmt.Printf("Added contact %s (%s)\n", c.Name, formatter.TruncID(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&ctype, "type", "Contact", "Contact type (Client/Contact/Personal)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func newContactListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := app.Contacts.List(context.Background(), !all)
			if err != nil {
				return err
			}
			if len(contacts) == 0 {
				fmt.Println("No contacts.")
				return nil
			}

			headers := []string{"ID", "NAME", "TYPE", "EMAIL", "PHONE"}
			rows := make([][]string, 0, len(contacts))
			for _, c := range contacts {
				name := c.Name
				if !c.IsActive {
					name = formatter.Dim(name + " (inactive)")
				}
				rows = append(rows, []string{
					formatter.TruncID(c.ID),
					name,
					string(c.Type),
					c.Email,
					c.Phone,
				})
			}

			fmt.Print(formatter.RenderBox("Contacts", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deactivated contacts")

	return cmd
}

func newContactDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate ID",
		Short: "Hide a contact from pickers without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Contacts.Deactivate(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deactivated contact %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newContactRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Contacts.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed contact %s\n", args[0])
			return nil
		},
	}
}
