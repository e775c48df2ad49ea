package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"policyai-be/internal/config"
	"policyai-be/internal/dto"
	"policyai-be/internal/entity"
	"policyai-be/internal/repository/specification"
	"policyai-be/internal/repository/unitofwork"
	"policyai-be/pkg/storage"
	"policyai-be/pkg/webhook"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the ingest queue: it walks each uploaded file
// through uploading -> processing and notifies the external workflow.
// One bad file never blocks the rest of its batch.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	uowFactory    unitofwork.RepositoryFactory
	objectStore   storage.ObjectStore
	webhookClient *webhook.Client
	webhooks      config.WebhookConfig
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	objectStore storage.ObjectStore,
	webhookClient *webhook.Client,
	webhooks config.WebhookConfig,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		uowFactory:    uowFactory,
		objectStore:   objectStore,
		webhookClient: webhookClient,
		webhooks:      webhooks,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestSourceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // malformed, retrying will not help
		return
	}

	log.Printf("[INFO] Ingesting source %s", payload.SourceId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	src, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: payload.SourceId})
	if err != nil {
		log.Printf("[ERROR] Failed to load source %s: %v", payload.SourceId, err)
		msg.Nack()
		return
	}
	if src == nil {
		log.Printf("[WARN] Source %s vanished before ingestion", payload.SourceId)
		msg.Ack()
		return
	}

	if err := cs.ingest(ctx, uow, src, payload.Data); err != nil {
		reason := err.Error()
		// Fail from whatever non-terminal state the row reached.
		for _, from := range []entity.SourceStatus{entity.SourceStatusProcessing, entity.SourceStatusUploading, entity.SourceStatusPending} {
			if applied, _ := uow.SourceRepository().TransitionStatus(ctx, src.Id, from, entity.SourceStatusFailed, &reason); applied {
				break
			}
		}
		log.Printf("[ERROR] Ingestion failed for source %s: %v", src.Id, err)
		msg.Ack() // recorded as failed; do not redeliver
		return
	}

	msg.Ack()
}

func (cs *consumerService) ingest(ctx context.Context, uow unitofwork.UnitOfWork, src *entity.Source, data string) error {
	processPayload := webhook.ProcessDocumentPayload{
		SourceId:         src.Id.String(),
		PolicyDocumentId: src.PolicyDocumentId.String(),
		SourceType:       string(src.Type),
		MimeType:         src.MimeType,
		Title:            src.Title,
	}

	if src.Type.HasFileBody() {
		applied, err := uow.SourceRepository().TransitionStatus(ctx, src.Id, entity.SourceStatusPending, entity.SourceStatusUploading, nil)
		if err != nil {
			return err
		}
		if !applied {
			// Another worker picked it up already.
			return nil
		}

		if cs.objectStore == nil {
			return fmt.Errorf("object storage not configured")
		}

		body, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return fmt.Errorf("invalid file encoding: %w", err)
		}
		if int64(len(body)) > entity.MaxSourceFileSize {
			return fmt.Errorf("file exceeds the %dMB limit", entity.MaxSourceFileSize/(1024*1024))
		}

		key := fmt.Sprintf("sources/%s/%s", src.PolicyDocumentId, src.Id)
		fileURL, err := cs.objectStore.Upload(ctx, key, body, src.MimeType)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		src.FilePath = &key
		src.FileSize = int64(len(body))
		if err := uow.SourceRepository().Update(ctx, src); err != nil {
			return err
		}

		if _, err := uow.SourceRepository().TransitionStatus(ctx, src.Id, entity.SourceStatusUploading, entity.SourceStatusProcessing, nil); err != nil {
			return err
		}
		processPayload.FileURL = fileURL
	} else {
		// Link and text sources carry no bytes to store; they go straight
		// to processing.
		applied, err := uow.SourceRepository().TransitionStatus(ctx, src.Id, entity.SourceStatusPending, entity.SourceStatusProcessing, nil)
		if err != nil {
			return err
		}
		if !applied {
			return nil
		}
		if src.Url != nil {
			processPayload.SourceURL = *src.Url
		}
		if src.Content != nil {
			processPayload.Content = *src.Content
		}
	}

	if _, err := cs.webhookClient.Post(ctx, cs.webhooks.ProcessDocumentURL, processPayload); err != nil {
		return fmt.Errorf("processing webhook failed: %w", err)
	}

	cs.maybeTriggerGeneration(ctx, uow, src.PolicyDocumentId)
	return nil
}

// maybeTriggerGeneration kicks off document-level artifact generation the
// first time a source of the document reaches the workflow.
func (cs *consumerService) maybeTriggerGeneration(ctx context.Context, uow unitofwork.UnitOfWork, docId uuid.UUID) {
	doc, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: docId})
	if err != nil || doc == nil {
		return
	}
	if doc.GenerationStatus != entity.GenerationStatusPending {
		return
	}
	if cs.webhooks.GenerationURL == "" {
		return
	}

	payload := webhook.GenerationPayload{PolicyDocumentId: doc.Id.String()}
	if _, err := cs.webhookClient.Post(ctx, cs.webhooks.GenerationURL, payload); err != nil {
		log.Printf("[WARN] Generation trigger failed for document %s: %v", doc.Id, err)
		return
	}

	doc.GenerationStatus = entity.GenerationStatusGenerating
	if err := uow.PolicyDocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[WARN] Failed to mark document %s generating: %v", doc.Id, err)
	}
}
