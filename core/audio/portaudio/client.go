package portaudio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/live-core/core/audio"
)

// Client is a playback-only portaudio output sink, usable where the miniaudio
// backend is unavailable. Writes block for full device buffers only; the tail
// remainder is carried over to the next send.
type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte

	out []int16

	mu sync.Mutex
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(audio.DefaultSampleRate), bufferSize, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		out:        out,
	}, nil
}

func (c *Client) SendAudio(audioChunk []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	bufferSize := c.bufferSize * 2

	audioChunk = append(c.leftoverAudio, audioChunk...)
	for i := range len(audioChunk)/bufferSize + 1 {
		if (i+1)*bufferSize > len(audioChunk) {
			c.leftoverAudio = make([]byte, len(audioChunk)-i*bufferSize)
			copy(c.leftoverAudio, audioChunk[i*bufferSize:])
			break
		}

		_ = binary.Read(bytes.NewBuffer(audioChunk[i*bufferSize:(i+1)*bufferSize]), binary.LittleEndian, c.out)
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
	}

	return nil
}

func (c *Client) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.leftoverAudio = make([]byte, 0)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.stream.Close()
	_ = portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
