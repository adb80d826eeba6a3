package ollama

import (
	"context"
	"log"
	"strings"
	"sync"
)

// Vision is the answer of a vision-capability lookup.
type Vision int

const (
	// VisionUnknown means the lookup failed or was inconclusive. It is
	// never cached; the next lookup asks the backend again.
	VisionUnknown Vision = iota
	VisionNo
	VisionYes
)

func (v Vision) String() string {
	switch v {
	case VisionYes:
		return "yes"
	case VisionNo:
		return "no"
	default:
		return "unknown"
	}
}

// visionTag is the capability tag the backend reports for multimodal
// models; visionKeyHints are model_info key substrings that identify a
// multimodal projector when no explicit tag list is present.
const visionTag = "vision"

var visionKeyHints = []string{"vision", "clip"}

// capabilityCache memoizes definitive vision answers for the process
// lifetime. Model capabilities of a fixed build do not change at
// runtime, so entries are never invalidated.
type capabilityCache struct {
	mu     sync.RWMutex
	vision map[string]bool
}

func newCapabilityCache() *capabilityCache {
	return &capabilityCache{vision: make(map[string]bool)}
}

func (c *capabilityCache) get(model string) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vision[model]
	return v, ok
}

func (c *capabilityCache) put(model string, v bool) {
	c.mu.Lock()
	c.vision[model] = v
	c.mu.Unlock()
}

// SupportsVision reports whether the model accepts image input.
//
// One introspection call is made per uncached model. An explicit
// capability-tag list answers definitively; otherwise model_info keys
// are scanned for vision-related substrings. VisionUnknown is returned
// on any transport or parse failure and means "cannot confirm"; it is
// not cached, so a later lookup retries.
func (c *Client) SupportsVision(ctx context.Context, model string) Vision {
	if v, ok := c.caps.get(model); ok {
		if v {
			return VisionYes
		}
		return VisionNo
	}

	show, err := c.Show(ctx, model)
	if err != nil {
		log.Printf("capability lookup failed model=%s error=%v", model, err)
		return VisionUnknown
	}

	if len(show.Capabilities) > 0 {
		for _, tag := range show.Capabilities {
			if strings.EqualFold(tag, visionTag) {
				c.caps.put(model, true)
				return VisionYes
			}
		}
		c.caps.put(model, false)
		return VisionNo
	}

	for key := range show.ModelInfo {
		lower := strings.ToLower(key)
		for _, hint := range visionKeyHints {
			if strings.Contains(lower, hint) {
				c.caps.put(model, true)
				return VisionYes
			}
		}
	}

	return VisionUnknown
}
