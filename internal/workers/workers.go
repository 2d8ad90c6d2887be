package workers

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"recurso/internal/engine/cases"
	"recurso/internal/engine/notify"
	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
	"recurso/internal/platform/models"
	"recurso/internal/platform/repositories"
)

// Sweeper walks every tenant database once a day and fires reminder
// webhooks for cases whose follow-up has gone critical.
type Sweeper struct {
	orgRepo  *repositories.OrganizationRepository
	pool     *database.TenantDBPool
	webhooks config.WebhooksConfig
}

func NewSweeper(globalDB *sql.DB, pool *database.TenantDBPool, webhooks config.WebhooksConfig) *Sweeper {
	return &Sweeper{
		orgRepo:  repositories.NewOrganizationRepository(globalDB),
		pool:     pool,
		webhooks: webhooks,
	}
}

// SweepReminders classifies every reminder-enabled open case against its
// interval and dispatches case.reminder_due for the critical ones. Errors on
// one tenant never stop the sweep; they are logged and the walk continues.
func (s *Sweeper) SweepReminders(now time.Time) {
	orgs, err := s.orgRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("reminder sweep: failed to list organizations")
		return
	}

	var swept, due int
	for _, org := range orgs {
		db, err := s.pool.Get(org.ID, org.DBFilePath)
		if err != nil {
			log.Warn().Err(err).Str("org_id", org.ID).Msg("reminder sweep: failed to open tenant database")
			continue
		}

		caseRepo := cases.NewRepository(db)
		open, err := caseRepo.ListReminderEnabled()
		if err != nil {
			log.Warn().Err(err).Str("org_id", org.ID).Msg("reminder sweep: failed to list cases")
			continue
		}

		dispatcher := notify.NewDispatcher(
			repositories.NewWebhookRepository(db),
			s.webhooks.DeliveryTimeout,
			s.webhooks.RetryAttempts,
		)

		for _, c := range open {
			swept++

			interval := cases.ResolveInterval(c.ReminderIntervalDays, org.DefaultReminderDays)
			var lastContact *time.Time
			if c.LastContactAt != nil {
				t := time.Unix(*c.LastContactAt, 0)
				lastContact = &t
			}

			esc := cases.Classify(lastContact, interval, now)
			if esc.Tier != cases.TierCritical {
				continue
			}

			due++
			dispatcher.Dispatch(models.EventCaseReminderDue, org.ID, map[string]interface{}{
				"case_id":      c.ID,
				"client_id":    c.ClientID,
				"status":       c.Status,
				"elapsed_days": esc.ElapsedDays,
				"tier":         string(esc.Tier),
			})
		}
	}

	log.Info().Int("cases", swept).Int("due", due).Msg("reminder sweep finished")
}
