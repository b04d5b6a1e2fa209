package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vnudocs/hub-api/pkg/config"
)

// Client talks to the Telegram Bot API, which this service uses purely as
// blob storage: sendDocument stores a file and returns an opaque file_id,
// getFile resolves that id to a short-lived download path.
type Client struct {
	botToken    string
	channelID   string
	apiBaseURL  string
	fileBaseURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// FileStream carries a resolved download alongside its transport metadata.
type FileStream struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	FilePath      string
}

type apiEnvelope struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type sendDocumentResult struct {
	Document struct {
		FileID string `json:"file_id"`
	} `json:"document"`
}

type getFileResult struct {
	FilePath string `json:"file_path"`
}

// NewClient builds a relay client from configuration.
func NewClient(cfg config.TelegramConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	apiBase := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}
	fileBase := strings.TrimRight(cfg.FileBaseURL, "/")
	if fileBase == "" {
		fileBase = "https://api.telegram.org/file"
	}
	return &Client{
		botToken:    cfg.BotToken,
		channelID:   cfg.ChannelID,
		apiBaseURL:  apiBase,
		fileBaseURL: fileBase,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// SendDocument uploads the file bytes to the configured channel and returns
// the file_id Telegram assigned.
func (c *Client) SendDocument(ctx context.Context, filename string, content io.Reader) (string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		var err error
		defer func() {
			if closeErr := writer.Close(); err == nil {
				err = closeErr
			}
			pw.CloseWithError(err)
		}()
		if err = writer.WriteField("chat_id", c.channelID); err != nil {
			return
		}
		var part io.Writer
		if part, err = writer.CreateFormFile("document", filename); err != nil {
			return
		}
		_, err = io.Copy(part, content)
	}()

	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", c.apiBaseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return "", fmt.Errorf("build sendDocument request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("telegram sendDocument: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode sendDocument response: %w", err)
	}
	if !envelope.OK {
		return "", fmt.Errorf("telegram API error: %s", envelope.Description)
	}

	var result sendDocumentResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return "", fmt.Errorf("decode sendDocument result: %w", err)
	}
	if result.Document.FileID == "" {
		return "", fmt.Errorf("telegram sendDocument returned no file_id")
	}

	c.logger.Debug("relayed file to telegram", zap.String("filename", filename), zap.String("file_id", result.Document.FileID))
	return result.Document.FileID, nil
}

// GetFilePath resolves a stored file_id to a relative download path.
func (c *Client) GetFilePath(ctx context.Context, fileID string) (string, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", c.apiBaseURL, c.botToken, url.QueryEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build getFile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("telegram getFile: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode getFile response: %w", err)
	}
	if !envelope.OK {
		return "", fmt.Errorf("telegram getFile error: %s", envelope.Description)
	}

	var result getFileResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return "", fmt.Errorf("decode getFile result: %w", err)
	}
	if result.FilePath == "" {
		return "", fmt.Errorf("telegram getFile returned no file_path")
	}
	return result.FilePath, nil
}

// Download resolves the file_id and opens the binary stream for it. The
// caller owns the returned body.
func (c *Client) Download(ctx context.Context, fileID string) (*FileStream, error) {
	filePath, err := c.GetFilePath(ctx, fileID)
	if err != nil {
		return nil, err
	}

	downloadURL := fmt.Sprintf("%s/bot%s/%s", c.fileBaseURL, c.botToken, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram file download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("telegram file download failed with status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &FileStream{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
		ContentType:   contentType,
		FilePath:      filePath,
	}, nil
}
