package chat

import (
	"context"
	"log/slog"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/convparse"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
	"github.com/quoteflow-app/quoteflow/internal/llm"
	"github.com/quoteflow-app/quoteflow/internal/validation"
)

// CouldNotParse is the conversational reply when neither the heuristic
// parser nor the model produced anything usable. The conversation continues;
// this is not a failure dialog.
const CouldNotParse = "I couldn't pick out the document details from that. " +
	"Could you describe the items, the client, and the currency?"

// Config holds behavior flags for the chat pipeline.
type Config struct {
	AmbiguousDocType constants.DocumentType // used when the transcript mentions both or neither keyword
	DefaultCurrency  string
}

// Service drives one chat turn through the extraction pipeline: classify the
// document type, try the heuristic conversation parser, fall back to the
// model, validate, and produce either a prefill payload or a follow-up
// question. Each call is a pure function of its inputs; the service holds no
// per-conversation state and is safe for concurrent use.
type Service struct {
	logger     *slog.Logger
	cfg        Config
	classifier *convparse.Classifier
	parser     *convparse.Parser
	extractor  llm.DocumentExtractor
	validator  *validation.Validator
	questions  *validation.QuestionGenerator
}

func NewService(logger *slog.Logger, cfg Config, extractor llm.DocumentExtractor) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AmbiguousDocType == "" {
		cfg.AmbiguousDocType = constants.DocTypeInvoice
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	classifier := convparse.NewClassifier()
	classifier.Default = cfg.AmbiguousDocType
	return &Service{
		logger:     logger,
		cfg:        cfg,
		classifier: classifier,
		parser:     convparse.NewParser(logger),
		extractor:  extractor,
		validator:  validation.NewValidator(nil),
		questions:  validation.NewQuestionGenerator(nil),
	}
}

// TurnResult is the outcome of one chat turn or upload.
type TurnResult struct {
	DocumentType  constants.DocumentType     `json:"documentType"`
	Data          *extraction.DocumentData   `json:"data,omitempty"`
	Validation    validation.Result          `json:"validation"`
	Reply         string                     `json:"reply"`
	ReadyToCreate bool                       `json:"readyToCreate"`
	Source        string                     `json:"source"` // conversation | model | vision
}

// HandleTurn processes a text-only conversation. The heuristic parser is the
// primary path; the model is the fallback. Extraction failures are recovered
// into conversational replies, never returned as errors.
func (s *Service) HandleTurn(ctx context.Context, turns []convparse.Turn) *TurnResult {
	docType := s.classifier.Classify(turns)

	data, ok := s.parser.Parse(turns)
	source := "conversation"
	if !ok {
		source = "model"
		res, _, err := s.extractor.ExtractDocument(ctx, llm.ExtractRequest{
			Text:        convparse.Transcript(turns),
			DocTypeHint: docType,
			Business:    llm.BusinessContext{DefaultCurrency: s.cfg.DefaultCurrency},
		})
		if res == nil {
			res = &extraction.VisionResult{}
		}
		if err != nil || !res.Success || res.Data == nil {
			s.logger.Warn("chat.turn.extract_miss",
				"doc_type", string(docType),
				"model_error", res.Error,
			)
			return &TurnResult{
				DocumentType: docType,
				Validation:   s.validator.Validate(nil, docType),
				Reply:        CouldNotParse,
				Source:       source,
			}
		}
		data = res.Data
		if res.DocumentType.Creatable() {
			docType = res.DocumentType
		}
	}

	return s.finish(docType, data, source)
}

// HandleUpload processes an uploaded image through the vision adapter.
func (s *Service) HandleUpload(ctx context.Context, image []byte, mime string, hint constants.DocumentType) *TurnResult {
	if hint == "" || hint == constants.DocTypeUnknown {
		hint = s.cfg.AmbiguousDocType
	}
	res, _, err := s.extractor.ExtractDocument(ctx, llm.ExtractRequest{
		Image:       image,
		ImageMIME:   mime,
		DocTypeHint: constants.DocTypeUnknown, // let the model read the document
		Business:    llm.BusinessContext{DefaultCurrency: s.cfg.DefaultCurrency},
	})
	if res == nil {
		res = &extraction.VisionResult{}
	}
	if err != nil || !res.Success || res.Data == nil {
		s.logger.Warn("chat.upload.extract_miss", "model_error", res.Error)
		return &TurnResult{
			DocumentType: hint,
			Validation:   s.validator.Validate(nil, hint),
			Reply:        CouldNotParse,
			Source:       "vision",
		}
	}

	docType := hint
	if res.DocumentType.Creatable() {
		docType = res.DocumentType
	}
	return s.finish(docType, res.Data, "vision")
}

// Refine merges user-supplied corrections into a prior record and
// re-validates.
func (s *Service) Refine(prior, update *extraction.DocumentData, docType constants.DocumentType) *TurnResult {
	merged := extraction.Merge(prior, update)
	extraction.Backfill(merged)
	return s.finish(docType, merged, "merge")
}

func (s *Service) finish(docType constants.DocumentType, data *extraction.DocumentData, source string) *TurnResult {
	vres := s.validator.Validate(data, docType)

	reply := s.questions.FollowUp(vres.MissingRequired, docType)
	if vres.IsComplete {
		reply = "I have everything I need for your " + string(docType) + ". Shall I prepare it?"
	}

	s.logger.Info("chat.turn.done",
		"doc_type", string(docType),
		"source", source,
		"complete", vres.IsComplete,
		"auto_create", vres.CanAutoCreate,
		"missing_required", len(vres.MissingRequired),
	)

	return &TurnResult{
		DocumentType:  docType,
		Data:          data,
		Validation:    vres,
		Reply:         reply,
		ReadyToCreate: vres.IsComplete,
		Source:        source,
	}
}
