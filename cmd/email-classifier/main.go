package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
	"github.com/mailmint/inbound/internal/factory"
	"github.com/mailmint/inbound/internal/logging"
	"github.com/mailmint/inbound/internal/whitelist"
)

var (
	inputFile      = flag.String("file", "", "Input payload file (use stdin if not specified)")
	minConfidence  = flag.Float64("min-confidence", 0.3, "Minimum winning score before falling back to OTHER")
	trustedDomains = flag.String("trusted", "", "Comma-separated list of sender domains exempt from the spam pre-check")
	verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog        = flag.Bool("json-log", false, "Output logs in JSON format")
)

// classifierOutput is the JSON printed to stdout for one classified payload.
type classifierOutput struct {
	MessageID      string                   `json:"message_id"`
	From           string                   `json:"from"`
	Subject        string                   `json:"subject"`
	Classification core.EmailClassification `json:"classification"`
	Confidence     float64                  `json:"confidence"`
	ShouldProcess  bool                     `json:"should_process"`
	Extracted      *core.ExtractedDocument  `json:"extracted,omitempty"`
}

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Read payload from file or stdin
	var payloadReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		payloadReader = file
		logger.Info("Reading payload from file", zap.String("file", *inputFile))
	} else {
		payloadReader = os.Stdin
		logger.Info("Reading payload from stdin")
	}

	rawBody, err := io.ReadAll(payloadReader)
	if err != nil {
		logger.Fatal("Failed to read payload", zap.Error(err))
	}

	cfg := createConfigFromFlags()

	extractor := core.NewExtractor(core.DefaultAmountPatterns(), logger)
	trusted := whitelist.NewChecker(cfg.GetStringSlice("classifier.trusted_domains"), logger)
	classifier := core.NewClassifier(factory.NewClassifierConfig(cfg), trusted, extractor, logger)

	// The CLI classifies local payload files, so signature verification runs
	// in insecure mode with no secret.
	pipeline := core.NewPipeline(
		core.NewSignatureVerifier("", true, logger),
		core.NewPayloadValidator(),
		core.NewNormalizer(logger),
		classifier,
		logger,
	)

	result := pipeline.Process(rawBody, "")
	if !result.Success {
		logger.Fatal("Failed to process payload", zap.String("error", result.Error))
	}

	output := classifierOutput{
		MessageID:      result.Email.MessageID,
		From:           result.Email.From.Email,
		Subject:        result.Email.Subject,
		Classification: result.Classification.Classification,
		Confidence:     result.Classification.Confidence,
		ShouldProcess:  result.Classification.ShouldProcess,
		Extracted:      result.Classification.Extracted,
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(encoded))
}

// createConfigFromFlags creates a configuration from command line flags,
// overlaying them on the built-in defaults.
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.min_confidence", *minConfidence)

	if *trustedDomains != "" {
		domains := strings.Split(*trustedDomains, ",")
		for i, domain := range domains {
			domains[i] = strings.TrimSpace(domain)
		}
		v.Set("classifier.trusted_domains", domains)
	}

	return config.NewFromViper(v)
}
