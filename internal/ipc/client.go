package ipc

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bnema/inktop/internal/logger"
)

// ErrNotRunning is returned when no overlay is listening.
var ErrNotRunning = errors.New("inktop is not running")

// Client handles IPC communication with a running inktop instance
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// NewClientWithTimeout creates a new IPC client with custom timeout
func NewClientWithTimeout(socketPath string, timeout time.Duration) *Client {
	c := NewClient(socketPath)
	c.timeout = timeout
	return c
}

// SendCommand runs a tool action and returns the resulting status
func (c *Client) SendCommand(action, arg string) (*StatusInfo, error) {
	msg, err := NewCommandMessage(action, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to create command message: %w", err)
	}
	return c.roundTrip(msg)
}

// SendStatus sends a status query to the running inktop instance
func (c *Client) SendStatus() (*StatusInfo, error) {
	msg, err := NewStatusMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to create status message: %w", err)
	}
	return c.roundTrip(msg)
}

// IsRunning checks if an inktop instance is currently running
func (c *Client) IsRunning() bool {
	_, err := c.SendStatus()
	return err == nil
}

func (c *Client) roundTrip(msg *structpb.Struct) (*StatusInfo, error) {
	response, err := c.sendMessage(msg)
	if err != nil {
		return nil, err
	}

	switch t := MessageType(response); t {
	case TypeResponse:
		return GetStatusResponse(response)
	case TypeError:
		text, _ := GetErrorResponse(response)
		return nil, fmt.Errorf("server error: %s", text)
	default:
		return nil, fmt.Errorf("unexpected response type: %q", t)
	}
}

// sendMessage sends a message and returns the response
func (c *Client) sendMessage(msg *structpb.Struct) (*structpb.Struct, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		if isNotListening(err) {
			return nil, ErrNotRunning
		}
		return nil, fmt.Errorf("failed to connect to inktop: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close IPC connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeMessage(conn, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	response, err := readMessage(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return response, nil
}

// isNotListening reports whether dialing failed because nobody owns the socket
func isNotListening(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOENT)
}
