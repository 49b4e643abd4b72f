package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage work items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemShowCmd(app),
		newItemCompleteCmd(app),
		newItemReopenCmd(app),
		newItemDuplicateCmd(app),
		newItemRemoveCmd(app),
	)

	return cmd
}

func factorWeight(weights map[string]int, label, name string) (int, error) {
	w, ok := weights[label]
	if !ok {
		return 0, fmt.Errorf("invalid %s %q", name, label)
	}
	return w, nil
}

func newItemAddCmd(app *App) *cobra.Command {
	var who, notes, group, category string
	var importance, urgency, size, value string
	var startDate, dueDate, contactID, parentID string
	var plannedMinutes int

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			imp, err := factorWeight(domain.ImportanceWeights, importance, "importance")
			if err != nil {
				return err
			}
			urg, err := factorWeight(domain.UrgencyWeights, urgency, "urgency")
			if err != nil {
				return err
			}
			sz, err := factorWeight(domain.SizeWeights, size, "size")
			if err != nil {
				return err
			}
			val, err := factorWeight(domain.ValueWeights, value, "value")
			if err != nil {
				return err
			}

			w := &domain.WorkItem{
				Who:            who,
				Title:          args[0],
				Notes:          notes,
				Importance:     imp,
				Urgency:        urg,
				Size:           sz,
				Value:          val,
				Group:          group,
				Category:       category,
				PlannedMinutes: plannedMinutes,
			}
			if parentID != "" {
				parent, err := resolveItem(ctx, app, parentID)
				if err != nil {
					return err
				}
				w.ParentID = &parent.ID
			}
			if contactID != "" {
				w.ContactID = &contactID
			}
			if startDate != "" {
				d, err := time.Parse("2006-01-02", startDate)
				if err != nil {
					return fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startDate)
				}
				w.StartDate = &d
			}
			if dueDate != "" {
				d, err := time.Parse("2006-01-02", dueDate)
				if err != nil {
					return fmt.Errorf("invalid due date %q: use YYYY-MM-DD", dueDate)
				}
				w.DueDate = &d
			}
			if w.StartDate != nil && w.DueDate != nil && w.DueDate.Before(*w.StartDate) {
				return fmt.Errorf("due date cannot precede start date")
			}

			if err := app.Items.Create(ctx, w); err != nil {
				return err
			}
			fmt.Printf("Added item %s (priority %d)\n", formatter.TruncID(w.ID), w.PriorityScore)
			return nil
		},
	}

	cmd.Flags().StringVar(&who, "who", "me", "Owner of the item")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&importance, "importance", "Medium", "Importance (Critical/High/Medium/Low/None)")
	cmd.Flags().StringVar(&urgency, "urgency", "Medium", "Urgency (Critical/High/Medium/Low/None)")
	cmd.Flags().StringVar(&size, "size", "M", "Size (XL/L/M/S/P)")
	cmd.Flags().StringVar(&value, "value", "M", "Value (XL/L/M/S/P)")
	cmd.Flags().StringVar(&group, "group", "", "Group label")
	cmd.Flags().StringVar(&category, "category", "", "Category label")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent item ID")
	cmd.Flags().StringVar(&contactID, "contact", "", "Associated contact ID")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&plannedMinutes, "minutes", 0, "Planned time block in minutes")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open work items by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Items.ListOpen(context.Background())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No open items.")
				return nil
			}

			now := time.Now()
			headers := []string{"ID", "PRI", "TITLE", "WHO", "DUE", "PLAN"}
			rows := make([][]string, 0, len(items))
			for _, w := range items {
				due := formatter.Dim("-")
				if w.DueDate != nil {
					due = formatter.DueDateStyled(*w.DueDate, now)
				}
				rows = append(rows, []string{
					formatter.TruncID(w.ID),
					formatter.PriorityStyled(w.PriorityScore),
					formatter.TruncText(w.Title, 40),
					w.Who,
					due,
					formatter.FormatMinutes(w.PlannedMinutes),
				})
			}

			fmt.Print(formatter.RenderBox("Open Items", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}

func newItemShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a work item with its work history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := resolveItem(ctx, app, args[0])
			if err != nil {
				return err
			}

			var b []string
			b = append(b, formatter.Bold(w.Title))
			b = append(b, formatter.StatusPill(w.Status)+"  priority "+formatter.PriorityStyled(w.PriorityScore))
			b = append(b, "")
			b = append(b, formatter.Dim("id        ")+w.ID)
			b = append(b, formatter.Dim("who       ")+w.Who)
			if w.ParentID != nil {
				b = append(b, formatter.Dim("parent    ")+*w.ParentID)
			}
			if w.StartDate != nil {
				b = append(b, formatter.Dim("start     ")+w.StartDate.Format("2006-01-02"))
			}
			if w.DueDate != nil {
				b = append(b, formatter.Dim("due       ")+w.DueDate.Format("2006-01-02"))
			}
			b = append(b, formatter.Dim("planned   ")+formatter.FormatMinutes(w.PlannedMinutes))
			if w.Group != "" {
				b = append(b, formatter.Dim("group     ")+w.Group)
			}
			if w.Category != "" {
				b = append(b, formatter.Dim("category  ")+w.Category)
			}
			if w.Notes != "" {
				b = append(b, "", formatter.Header("Notes"), w.Notes)
			}

			logs, err := app.Logs.ListByItem(ctx, w.ID)
			if err != nil {
				return err
			}
			if len(logs) > 0 {
				total := 0
				rows := make([][]string, 0, len(logs))
				for _, e := range logs {
					total += e.Minutes
					rows = append(rows, []string{
						formatter.HumanTimestamp(e.StartedAt),
						formatter.FormatMinutes(e.Minutes),
						formatter.Dim(formatter.TruncText(e.Note, 40)),
					})
				}
				b = append(b, "", formatter.Header("Work Logged"),
					formatter.RenderTable([]string{"WHEN", "TIME", "NOTE"}, rows),
					formatter.Dim("total ")+formatter.FormatMinutes(total))
			}

			for _, line := range b {
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newItemCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a work item completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := resolveItem(ctx, app, args[0])
			if err != nil {
				return err
			}
			changed, err := app.Items.Complete(ctx, w.ID)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Printf("Item %s was already completed\n", formatter.TruncID(w.ID))
				return nil
			}
			fmt.Printf("Completed %s\n", formatter.TruncID(w.ID))
			return nil
		},
	}
}

func newItemReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen ID",
		Short: "Reopen a completed work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Items.Reopen(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Reopened %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}

func newItemDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate ID",
		Short: "Clone a work item as a new open item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := resolveItem(ctx, app, args[0])
			if err != nil {
				return err
			}
			dupID, err := app.Items.Duplicate(ctx, w.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Duplicated %s as %s\n", formatter.TruncID(w.ID), formatter.TruncID(dupID))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a work item and its work logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Items.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}
}
