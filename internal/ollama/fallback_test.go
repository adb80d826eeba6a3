package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestLooksLikeNoImageReply(t *testing.T) {
	positives := []string{
		"Please attach the image you would like me to describe.",
		"I cannot see any image in our conversation.",
		"No image was provided with your message.",
		"Por favor, envía la imagen que quieres analizar.",
		"No puedo ver ninguna imagen adjunta.",
		"Bitte sende das Bild, das ich beschreiben soll.",
		"Ich kann leider kein Bild sehen.",
		"Veuillez envoyer l'image que vous souhaitez analyser.",
		"Je ne vois pas d'image dans votre message.",
		"Non posso vedere nessuna immagine allegata.",
		"Пожалуйста, прикрепите изображение для анализа.",
		"Я не вижу изображение в вашем сообщении.",
	}
	for _, text := range positives {
		if !LooksLikeNoImageReply(text) {
			t.Errorf("expected match: %q", text)
		}
	}

	negatives := []string{
		"The image shows a red bicycle leaning against a wall.",
		"This photo was taken at sunset over the mountains.",
		"Here is a function that resizes an image in Python.",
		"La imagen muestra un gato durmiendo en el sofá.",
	}
	for _, text := range negatives {
		if LooksLikeNoImageReply(text) {
			t.Errorf("unexpected match: %q", text)
		}
	}
}

// fallbackBackend serves /api/chat and /api/generate with canned
// behavior and counts calls per endpoint.
type fallbackBackend struct {
	chatStatus   int
	chatReply    string
	genReply     string
	genStatus    int
	chatCalls    atomic.Int32
	genCalls     atomic.Int32
	lastGenerate GenerateRequest
}

func (b *fallbackBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		b.chatCalls.Add(1)
		if b.chatStatus != 0 {
			http.Error(w, "chat rejected", b.chatStatus)
			return
		}
		var resp ChatResponse
		resp.Message.Role = "assistant"
		resp.Message.Content = b.chatReply
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		b.genCalls.Add(1)
		if err := json.NewDecoder(r.Body).Decode(&b.lastGenerate); err != nil {
			t.Errorf("decode generate request: %v", err)
		}
		if b.genStatus != 0 {
			http.Error(w, "generate rejected", b.genStatus)
			return
		}
		json.NewEncoder(w).Encode(GenerateResponse{Response: b.genReply})
	})
	return mux
}

func newFallbackClient(t *testing.T, b *fallbackBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL, Retries: 0})
}

func TestChatWithFallbackPlainSuccess(t *testing.T) {
	backend := &fallbackBackend{chatReply: "The image shows a red bicycle."}
	client := newFallbackClient(t, backend)

	text, fellBack, err := client.ChatWithFallback(context.Background(), "llava", nil, "describe", []string{"blob"})
	if err != nil {
		t.Fatal(err)
	}
	if fellBack {
		t.Error("no fallback expected")
	}
	if text != "The image shows a red bicycle." {
		t.Errorf("text = %q", text)
	}
	if backend.genCalls.Load() != 0 {
		t.Error("generate endpoint must not be touched")
	}
}

func TestChatWithFallbackOnRejectedStatus(t *testing.T) {
	backend := &fallbackBackend{chatStatus: http.StatusNotFound, genReply: "A red bicycle."}
	client := newFallbackClient(t, backend)

	text, fellBack, err := client.ChatWithFallback(context.Background(), "llava", nil, "describe", []string{"blob"})
	if err != nil {
		t.Fatal(err)
	}
	if !fellBack {
		t.Error("expected fallback")
	}
	if text != "A red bicycle." {
		t.Errorf("text = %q", text)
	}
	if backend.lastGenerate.Model != "llava" {
		t.Errorf("fallback model = %q", backend.lastGenerate.Model)
	}
	if len(backend.lastGenerate.Images) != 1 {
		t.Errorf("fallback lost the images: %+v", backend.lastGenerate)
	}
}

func TestChatWithFallbackOnNoImageReply(t *testing.T) {
	backend := &fallbackBackend{
		chatReply: "I cannot see any image in our conversation.",
		genReply:  "A red bicycle.",
	}
	client := newFallbackClient(t, backend)

	text, fellBack, err := client.ChatWithFallback(context.Background(), "llava", nil, "describe", []string{"blob"})
	if err != nil {
		t.Fatal(err)
	}
	if !fellBack {
		t.Error("expected fallback on a no-image reply")
	}
	if text != "A red bicycle." {
		t.Errorf("text = %q", text)
	}
}

func TestChatWithoutImagesNeverFallsBack(t *testing.T) {
	// The reply happens to match a no-image pattern, but no images were
	// attached, so it is returned as-is.
	backend := &fallbackBackend{chatReply: "No image was provided, so I will answer from context."}
	client := newFallbackClient(t, backend)

	text, fellBack, err := client.ChatWithFallback(context.Background(), "llama3", nil, "hi", nil)
	if err != nil {
		t.Fatal(err)
	}
	if fellBack {
		t.Error("fallback requires attached images")
	}
	if text == "" {
		t.Error("expected the chat reply")
	}
	if backend.genCalls.Load() != 0 {
		t.Error("generate endpoint must not be touched")
	}
}

func TestChatWithFallbackSingleHop(t *testing.T) {
	backend := &fallbackBackend{
		chatStatus: http.StatusUnprocessableEntity,
		genStatus:  http.StatusNotFound,
	}
	client := newFallbackClient(t, backend)

	_, fellBack, err := client.ChatWithFallback(context.Background(), "llava", nil, "describe", []string{"blob"})
	if err == nil {
		t.Fatal("expected the fallback failure to propagate")
	}
	if !fellBack {
		t.Error("the failed attempt was the fallback")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) || backendErr.Status != http.StatusNotFound {
		t.Errorf("expected 404 BackendError, got %v", err)
	}
	if got := backend.genCalls.Load(); got != 1 {
		t.Errorf("at most one fallback hop allowed, generate called %d times", got)
	}
}

func TestChatWithFallbackServerErrorPropagates(t *testing.T) {
	backend := &fallbackBackend{chatStatus: http.StatusInternalServerError}
	client := newFallbackClient(t, backend)

	_, _, err := client.ChatWithFallback(context.Background(), "llama3", nil, "hi", nil)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) || backendErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 BackendError, got %v", err)
	}
	if backend.genCalls.Load() != 0 {
		t.Error("a 500 must not trigger the fallback")
	}
}
