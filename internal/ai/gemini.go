// Package ai wraps the Gemini API for the three generative capabilities:
// image classification, duplicate-issue judgment and chatbot free-text
// extraction. Every call is a single attempt; callers decide whether a
// failure is soft or hard.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

const classifyPrompt = `You are an expert in classifying images of community issues.
Based on the provided image, determine the most appropriate category for the issue.
The possible categories are: pothole, tree fall, garbage, stray dog.
Respond with the category of the issue.`

const duplicatePromptFmt = `You are an expert system for detecting duplicate issue reports.

Given a new issue report with a photo, latitude, longitude and a complaint ID, you will analyze if it's a duplicate of existing reports.

Consider image similarity and GPS proximity to determine if the issue has already been reported. Pay close attention to the location and ensure the reported issue is in close proximity to another reported issue. The GPS coordinates provided are very accurate and should be taken into account.

Return whether the issue is a duplicate, and if so, the ID of the duplicate complaint and the reason for the determination.

Latitude: %f
Longitude: %f
Complaint ID: %s`

const extractPromptFmt = `You are a chatbot designed to help users report issues in their community. Extract the issue category, location description, and a detailed description from the user input.

The issue category should be one of the following: pothole, tree fall, garbage, stray dog. If the category is not clear from the input, default to 'other'.

Provide the location as a readable description. If the location is not mentioned, respond with "N/A".

Provide a detailed description of the issue. If the description is not clear, use the original user input as the description.

User Input: %s`

// Client is a thin Gemini wrapper bound to one model.
type Client struct {
	gc     *genai.Client
	model  string
	logger *zap.SugaredLogger
}

// New creates a Gemini client. An empty API key is an error; the caller
// should skip construction entirely when AI is unconfigured.
func New(ctx context.Context, apiKey, model string, logger *zap.SugaredLogger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{gc: gc, model: model, logger: logger}, nil
}

// ClassifyIssue labels a photo with one category from the fixed set
// {pothole, tree fall, garbage, stray dog}.
func (c *Client) ClassifyIssue(ctx context.Context, photoDataURI string) (models.ComplaintCategory, error) {
	data, mime, err := decodeDataURI(photoDataURI)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(classifyPrompt),
		genai.NewPartFromBytes(data, mime),
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {
				Type: genai.TypeString,
				Enum: []string{"pothole", "tree fall", "garbage", "stray dog"},
			},
		},
		Required: []string{"category"},
	}

	var out struct {
		Category string `json:"category"`
	}
	if err := c.generateJSON(ctx, parts, schema, &out); err != nil {
		return "", err
	}

	cat := models.ComplaintCategory(out.Category)
	if !cat.Valid() || cat == models.CategoryOther {
		return "", fmt.Errorf("classifier returned unknown category %q", out.Category)
	}
	return cat, nil
}

// DetectDuplicate asks the model whether the new complaint matches a
// previously filed one by image similarity and proximity.
func (c *Client) DetectDuplicate(ctx context.Context, photoDataURI string, lat, lng float64, complaintID string) (*models.DuplicateVerdict, error) {
	data, mime, err := decodeDataURI(photoDataURI)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf(duplicatePromptFmt, lat, lng, complaintID)),
		genai.NewPartFromBytes(data, mime),
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isDuplicate":          {Type: genai.TypeBoolean},
			"duplicateComplaintId": {Type: genai.TypeString},
			"reason":               {Type: genai.TypeString},
		},
		Required: []string{"isDuplicate"},
	}

	verdict := &models.DuplicateVerdict{}
	if err := c.generateJSON(ctx, parts, schema, verdict); err != nil {
		return nil, err
	}
	return verdict, nil
}

// ExtractIssueReport turns free text from the chatbot into a structured
// category / location / description triple.
func (c *Client) ExtractIssueReport(ctx context.Context, userInput string) (*models.ExtractedReport, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf(extractPromptFmt, userInput)),
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category":            {Type: genai.TypeString},
			"locationDescription": {Type: genai.TypeString},
			"description":         {Type: genai.TypeString},
		},
		Required: []string{"category", "locationDescription", "description"},
	}

	report := &models.ExtractedReport{}
	if err := c.generateJSON(ctx, parts, schema, report); err != nil {
		return nil, err
	}

	if report.Category == "" {
		report.Category = string(models.CategoryOther)
	}
	if report.LocationDescription == "" {
		report.LocationDescription = "N/A"
	}
	if report.Description == "" {
		report.Description = userInput
	}
	return report, nil
}

// generateJSON runs one structured-output generation and decodes the reply.
func (c *Client) generateJSON(ctx context.Context, parts []*genai.Part, schema *genai.Schema, out interface{}) error {
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := c.gc.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return fmt.Errorf("gemini returned empty response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

// decodeDataURI splits "data:<mime>;base64,<data>" into raw bytes and mime type.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("photo is not a data URI")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		mime = "image/jpeg"
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode photo payload: %w", err)
	}
	return data, mime, nil
}
