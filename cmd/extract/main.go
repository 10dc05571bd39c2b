package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/convparse"
	"github.com/quoteflow-app/quoteflow/internal/llm"
	"github.com/quoteflow-app/quoteflow/internal/llm/openai"
	"github.com/quoteflow-app/quoteflow/internal/validation"
)

// One-shot extraction: point it at an image or a transcript text file and it
// prints the extracted document plus validation as JSON. Text files go
// through the heuristic conversation parser first, same as a chat turn.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: extract <file> [quote|invoice]")
		os.Exit(2)
	}
	path := os.Args[1]
	hint := constants.DocTypeUnknown
	if len(os.Args) >= 3 {
		dt, ok := constants.Canonicalize(os.Args[2])
		if !ok {
			logger.Error("invalid document type", "arg", os.Args[2])
			os.Exit(2)
		}
		hint = dt
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mime := imageMIME(path)
	req := llm.ExtractRequest{DocTypeHint: hint}
	if mime != "" {
		req.Image = raw
		req.ImageMIME = mime
	} else {
		req.Text = string(raw)
		// Cheap path first: the heuristic parser often needs no model call.
		turns := []convparse.Turn{{Role: convparse.RoleUser, Content: string(raw)}}
		if hint == constants.DocTypeUnknown {
			hint = convparse.NewClassifier().Classify(turns)
			req.DocTypeHint = hint
		}
		if data, ok := convparse.NewParser(logger).Parse(turns); ok {
			vres := validation.NewValidator(nil).Validate(data, hint)
			print(map[string]any{
				"source":       "parser",
				"documentType": hint,
				"data":         data,
				"validation":   vres,
			})
			return
		}
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}
	client := openai.NewClient(openai.Config{
		Model:           getenv("OPENAI_MODEL", "gpt-4o-mini"),
		VisionModel:     os.Getenv("OPENAI_VISION_MODEL"),
		APIKey:          os.Getenv("OPENAI_API_KEY"),
		Temperature:     0.0,
		Timeout:         45 * time.Second,
		LenientOptional: true,
	}, logger)

	res, _, err := client.ExtractDocument(ctx, req)
	if err != nil {
		logger.Error("extract", "error", err)
		os.Exit(1)
	}
	out := map[string]any{
		"source": "model",
		"result": res,
	}
	if res.Success && res.Data != nil {
		out["validation"] = validation.NewValidator(nil).Validate(res.Data, res.DocumentType)
	}
	print(out)
}

func print(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
