package ollama

import (
	"context"
	"log"
	"net/http"
	"regexp"
)

// Some backends silently ignore images attached on the conversational
// endpoint but honor them on the single-prompt endpoint. When a reply
// reads like the model never saw the image, the same request is retried
// once against /api/generate.
//
// The patterns are a heuristic, kept as swappable package data: they can
// misfire on replies that discuss missing images as a topic.
var noImagePatterns = []*regexp.Regexp{
	// English
	regexp.MustCompile(`(?i)please\s+(attach|send|provide|upload|share)\b.{0,40}\b(image|photo|picture)`),
	regexp.MustCompile(`(?i)\b(cannot|can['’]t|unable\s+to|don['’]t|do\s+not)\s+(see|view|access|find)\b.{0,40}\b(image|photo|picture)`),
	regexp.MustCompile(`(?i)\bno\s+(image|photo|picture)\s+(was\s+|has\s+been\s+)?(attached|provided|uploaded|included|found)`),
	// Spanish
	regexp.MustCompile(`(?i)\b(env[ií]a|adjunta|comparte|manda)\b.{0,40}\b(imagen|foto)`),
	regexp.MustCompile(`(?i)\bno\s+puedo\s+(ver|acceder)\b.{0,40}\b(imagen|foto)`),
	// German
	regexp.MustCompile(`(?i)\b(sende|schicke|lade)\b.{0,40}\b(bild|foto)`),
	regexp.MustCompile(`(?i)\bkann\b.{0,40}\b(bild|foto)\b.{0,30}nicht\s+(sehen|finden)`),
	regexp.MustCompile(`(?i)\bkein\s+bild\b`),
	// French
	regexp.MustCompile(`(?i)\b(envoyez|joignez|partagez)\b.{0,40}\b(image|photo)`),
	regexp.MustCompile(`(?i)\bje\s+ne\s+(peux|vois)\s+pas\b.{0,40}\b(image|photo)`),
	regexp.MustCompile(`(?i)\baucune\s+image\b`),
	// Italian
	regexp.MustCompile(`(?i)\b(invia|allega|condividi)\b.{0,40}\b(immagine|foto)`),
	regexp.MustCompile(`(?i)\bnon\s+(posso|riesco\s+a)\s+vedere\b.{0,40}\b(immagine|foto)`),
	regexp.MustCompile(`(?i)\bnessuna\s+immagine\b`),
	// Russian
	regexp.MustCompile(`(?i)(прикрепите|отправьте|пришлите).{0,40}(изображени|фото|картинк)`),
	regexp.MustCompile(`(?i)не\s+(вижу|могу\s+увидеть).{0,40}(изображени|фото|картинк)`),
}

// Chat statuses that mean the conversational form itself was rejected
// and the single-prompt form is worth one attempt.
var fallbackStatuses = []int{
	http.StatusBadRequest,
	http.StatusNotFound,
	http.StatusUnprocessableEntity,
}

// LooksLikeNoImageReply reports whether text reads like the model
// claiming it received or can see no image.
func LooksLikeNoImageReply(text string) bool {
	for _, p := range noImagePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ChatWithFallback sends the request on the conversational endpoint,
// retrying the same logical request once on the single-prompt endpoint
// when the chat attempt is rejected with 400/404/422, or when images
// were attached and the reply looks like the model never saw them.
//
// At most one fallback hop happens per request; a failure of the
// fallback attempt propagates as-is. The returned bool reports whether
// the fallback answer is the one being returned.
func (c *Client) ChatWithFallback(ctx context.Context, model string, history []Turn, prompt string, images []string) (string, bool, error) {
	req := &ChatRequest{
		Model:    model,
		Messages: ComposeChat(history, prompt, images),
	}

	text, err := c.Chat(ctx, req)
	if err != nil {
		if !IsBackendStatus(err, fallbackStatuses...) {
			return "", false, err
		}
		log.Printf("chat fallback model=%s reason=status error=%v", model, err)
		text, err = c.generateFallback(ctx, model, history, prompt, images)
		return text, true, err
	}

	if len(images) > 0 && LooksLikeNoImageReply(text) {
		log.Printf("chat fallback model=%s reason=no_image_reply", model)
		fbText, fbErr := c.generateFallback(ctx, model, history, prompt, images)
		if fbErr != nil {
			return "", false, fbErr
		}
		return fbText, true, nil
	}

	return text, false, nil
}

func (c *Client) generateFallback(ctx context.Context, model string, history []Turn, prompt string, images []string) (string, error) {
	req := ComposeGenerate(history, prompt, images)
	req.Model = model
	return c.Generate(ctx, req)
}
