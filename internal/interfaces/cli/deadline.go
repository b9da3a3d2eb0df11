package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adsforge/adsforge/internal/deadline"
)

func newDeadlineCmd(env *cliEnv) *cobra.Command {
	var (
		mailingDate  string
		periodMonths int
		entitySize   string
	)

	cmd := &cobra.Command{
		Use:   "deadline",
		Short: "Calculate an office-action response deadline",
		Long:  "Compute the response due date for a USPTO office action, including\nweekend/holiday rolls and the 37 CFR 1.136(a) extension schedule with fees\nfor the given entity size.",
		RunE: func(cmd *cobra.Command, args []string) error {
			mailed, err := time.Parse("2006-01-02", mailingDate)
			if err != nil {
				return fmt.Errorf("--mailing-date must be formatted YYYY-MM-DD")
			}

			calc := deadline.NewCalculator(deadline.EntitySize(entitySize))
			res, err := calc.Calculate(mailed, periodMonths)
			if err != nil {
				return err
			}

			return env.printResult(res, func() {
				printDeadline(res)
			})
		},
	}

	cmd.Flags().StringVar(&mailingDate, "mailing-date", "", "office action mailing date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&periodMonths, "period", 3, "shortened statutory period in months (1-6)")
	cmd.Flags().StringVar(&entitySize, "entity-size", "large", "fee schedule entity size (large, small, micro)")
	_ = cmd.MarkFlagRequired("mailing-date")
	return cmd
}

func printDeadline(res *deadline.Result) {
	const layout = "Monday, January 2, 2006"
	fmt.Printf("Mailing date:  %s\n", res.MailingDate.Format(layout))
	fmt.Printf("Period:        %d months\n", res.PeriodMonths)
	fmt.Printf("Response due:  %s\n", res.Due.Format(layout))
	if !res.Due.Equal(res.StatutoryDue) {
		fmt.Printf("  (statutory date %s rolled to next business day)\n", res.StatutoryDue.Format("2006-01-02"))
	}
	fmt.Println("Extensions:")
	for _, opt := range res.Extensions {
		fmt.Printf("  +%d month(s): due %s, fee $%d\n", opt.Months, opt.Due.Format("2006-01-02"), opt.Fee)
	}
	fmt.Printf("Final deadline: %s\n", res.FinalDeadline.Format(layout))
}
