// Package ppttranslator translates PowerPoint decks with AI providers while
// preserving per-run formatting.
//
// Paragraph text is flattened into a single delimited string, translated in
// one model call, and distributed back onto the original runs, so bold,
// color and font boundaries survive translation. Table cells and speaker
// notes are translated whole. Footer, slide number and date placeholders and
// purely numeric text are left untouched.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "os"
//
//	    ppttranslator "github.com/engchina/No.1-PPT-Translator"
//	    "github.com/engchina/No.1-PPT-Translator/cache"
//	    "github.com/engchina/No.1-PPT-Translator/provider"
//	)
//
//	func main() {
//	    generic := provider.NewOpenAIClient(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    pipeline := ppttranslator.NewPipeline(ppttranslator.PipelineConfig{
//	        Generic: generic,
//	        Cache:   cache.NewInMemoryCache(3600),
//	    })
//
//	    result, err := pipeline.Run(context.Background(), "gpt-4o", "deck.pptx", "Japanese")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.OutputPath) // deck_Japanese.pptx in ./outputs
//	}
package ppttranslator
