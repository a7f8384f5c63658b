package notification

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/mbriggs/band-management-backend/utils"
)

type Service interface {
	PublishActivity(ctx context.Context, activity Activity)
	HandleActivity(ctx context.Context, activity Activity) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]InAppNotification, error)
	MarkAsRead(ctx context.Context, id uint, userID uuid.UUID) (bool, error)
}

type service struct {
	repo     Repository
	producer *utils.KafkaProducer
	mailer   *utils.Mailer
}

func NewService(repo Repository, producer *utils.KafkaProducer, mailer *utils.Mailer) Service {
	return &service{repo: repo, producer: producer, mailer: mailer}
}

// ===========================
// 🎯 Publish an activity for fan-out
// Goes through Kafka when a broker is configured; otherwise the
// activity is handled in-process so nothing is dropped.
func (s *service) PublishActivity(ctx context.Context, activity Activity) {
	if s.producer != nil && s.producer.Enabled() {
		if err := s.producer.Publish(ctx, activity.BandID.String(), activity); err != nil {
			log.Printf("⚠️ Kafka publish failed, handling activity inline: %v", err)
		} else {
			return
		}
	}
	if err := s.HandleActivity(ctx, activity); err != nil {
		log.Printf("❌ Failed to handle activity %s for band %s: %v", activity.Action, activity.BandID, err)
	}
}

// ===========================
// 🛠 Fan an activity out to band members
func (s *service) HandleActivity(ctx context.Context, activity Activity) error {
	memberIDs, err := s.repo.BandMemberIDs(ctx, activity.BandID)
	if err != nil {
		return err
	}

	notifications := make([]InAppNotification, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == activity.ActorID {
			continue
		}
		notifications = append(notifications, InAppNotification{
			UserID:   id,
			BandID:   activity.BandID,
			Title:    activity.Title,
			Message:  activity.Message,
			Category: activity.Category,
		})
	}
	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return err
	}
	log.Printf("ℹ️ Activity %s fanned out to %d members of band %s", activity.Action, len(notifications), activity.BandID)

	if activity.Action == ActionEventConfirmed && s.mailer != nil {
		emails, err := s.repo.BandMemberEmails(ctx, activity.BandID)
		if err != nil {
			log.Printf("⚠️ Could not load member emails for band %s: %v", activity.BandID, err)
			return nil
		}
		if err := s.mailer.SendEventConfirmed(emails, activity.BandName, activity.Title, activity.Message); err != nil {
			log.Printf("⚠️ Confirmation email failed for band %s: %v", activity.BandID, err)
		}
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]InAppNotification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *service) MarkAsRead(ctx context.Context, id uint, userID uuid.UUID) (bool, error) {
	return s.repo.MarkAsRead(ctx, id, userID)
}
