package synth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/raushankrgupta/look-builder/config"
	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/utils"
)

const geminiModel = "gemini-3-pro-image-preview"

// Gemini implements Gateway on top of the Gemini image model. Generated
// images are uploaded to S3 and referenced by object key.
type Gemini struct{}

var _ Gateway = (*Gemini)(nil)

// NewGemini returns the Gemini-backed gateway. The API key is read from
// config at call time so a missing key fails the call, not startup.
func NewGemini() *Gemini {
	return &Gemini{}
}

func (g *Gemini) Synthesize(ctx context.Context, baseImage string, subject string, product models.ProductRef, prior []models.ProductRef) (string, error) {
	prompt := fmt.Sprintf(`
I want the clothing product in the attached product images to be worn by the person in the first image.
Keep the person, pose and lighting exactly as in the first image; only add the product.
Show 100%% truth, do not replace the person with a new person in due process.

Person Details: %s
Product: %s %s (SKU %s)
`, subject, product.Brand, product.Name, product.SKU)

	if len(prior) > 0 {
		var worn []string
		for _, p := range prior {
			worn = append(worn, fmt.Sprintf("%s %s", p.Brand, p.Name))
		}
		prompt += fmt.Sprintf("The person is already wearing, and must keep wearing: %s.\n", strings.Join(worn, ", "))
	}

	parts := []genai.Part{genai.Text(prompt)}

	baseData, err := fetchImage(ctx, baseImage)
	if err != nil {
		return "", &GenerationError{Reason: "failed to fetch base image", Err: err}
	}
	parts = append(parts, genai.ImageData("jpeg", baseData))

	for _, img := range product.Images {
		if img == "" {
			continue
		}
		prodData, err := fetchImage(ctx, img)
		if err == nil {
			parts = append(parts, genai.ImageData("jpeg", prodData))
		}
	}

	return g.generate(ctx, parts, "step")
}

func (g *Gemini) Edit(ctx context.Context, baseImage string, instruction string, guideImage string) (string, error) {
	prompt := fmt.Sprintf(`
Edit the first image as instructed. Keep the person identical; change only what the instruction asks for.

Instruction: %s
`, instruction)

	parts := []genai.Part{genai.Text(prompt)}

	baseData, err := fetchImage(ctx, baseImage)
	if err != nil {
		return "", &GenerationError{Reason: "failed to fetch base image", Err: err}
	}
	parts = append(parts, genai.ImageData("jpeg", baseData))

	if guideImage != "" {
		guideData, err := fetchImage(ctx, guideImage)
		if err != nil {
			return "", &GenerationError{Reason: "failed to fetch guide image", Err: err}
		}
		parts = append(parts, genai.ImageData("jpeg", guideData))
	}

	return g.generate(ctx, parts, "edit")
}

// generate runs the model call and uploads the returned image to S3,
// returning its object key.
func (g *Gemini) generate(ctx context.Context, parts []genai.Part, kind string) (string, error) {
	if config.GeminiAPIKey == "" {
		return "", &GenerationError{Reason: "GEMINI_API_KEY is not set"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.GeminiAPIKey))
	if err != nil {
		return "", &GenerationError{Reason: "failed to create Gemini client", Err: err}
	}
	defer client.Close()

	model := client.GenerativeModel(geminiModel)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &GenerationError{Reason: "model call failed", Err: err}
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Reason: "no content generated"}
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		blob, ok := part.(genai.Blob)
		if !ok {
			continue
		}
		objectKey := fmt.Sprintf("generated_images/%s_%d.jpg", kind, time.Now().UnixNano())
		if _, err := utils.UploadFileToS3(ctx, bytes.NewReader(blob.Data), objectKey, "image/jpeg"); err != nil {
			return "", &GenerationError{Reason: "failed to store generated image", Err: err}
		}
		return objectKey, nil
	}

	return "", &GenerationError{Reason: "model returned no usable image"}
}

// fetchImage loads image bytes from a URL, a local path, or an S3 key.
func fetchImage(ctx context.Context, pathOrURL string) ([]byte, error) {
	if !strings.HasPrefix(pathOrURL, "http") {
		if _, err := os.Stat(pathOrURL); err == nil {
			return os.ReadFile(pathOrURL)
		}
		presigned, err := utils.GetPresignedURL(ctx, pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("presigning %s: %w", pathOrURL, err)
		}
		pathOrURL = presigned
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image, status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
