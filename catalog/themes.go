// Package catalog holds the fixed theme and layout catalogs. Entries are
// immutable: they are defined here and never created or modified at runtime.
package catalog

// Theme is a named visual theme. Colors are CSS hex values with a leading '#';
// Gradient, when present, is a CSS gradient expression used by the renderer
// and ignored by exporters that cannot express it.
type Theme struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	FontFamily      string `json:"fontFamily"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	AccentColor     string `json:"accentColor"`
	Gradient        string `json:"gradient,omitempty"`
}

// Themes is the full theme catalog. The first entry is the default.
var Themes = []Theme{
	// Modern & Clean
	{ID: "modern-slate", Name: "Modern Slate", FontFamily: "Inter, sans-serif", BackgroundColor: "#f8fafc", TextColor: "#1e293b", AccentColor: "#3b82f6"},
	{ID: "minimal-dark", Name: "Minimal Dark", FontFamily: "Inter, sans-serif", BackgroundColor: "#18181b", TextColor: "#f4f4f5", AccentColor: "#a1a1aa"},
	{ID: "clean-white", Name: "Clean White", FontFamily: "Arial, sans-serif", BackgroundColor: "#ffffff", TextColor: "#000000", AccentColor: "#000000"},

	// Corporate
	{ID: "corp-blue", Name: "Corporate Blue", FontFamily: "Roboto, sans-serif", BackgroundColor: "#ffffff", TextColor: "#1e3a8a", AccentColor: "#1d4ed8"},
	{ID: "executive", Name: "Executive", FontFamily: "Georgia, serif", BackgroundColor: "#fdfbf7", TextColor: "#27272a", AccentColor: "#b45309"},
	{ID: "tech-startup", Name: "Tech Startup", FontFamily: "Poppins, sans-serif", BackgroundColor: "#ffffff", TextColor: "#111827", AccentColor: "#6366f1"},

	// Creative & Vibrant
	{ID: "vibrant-purple", Name: "Vibrant Purple", FontFamily: "Outfit, sans-serif", BackgroundColor: "#faf5ff", TextColor: "#581c87", AccentColor: "#9333ea", Gradient: "linear-gradient(135deg, #faf5ff 0%, #f3e8ff 100%)"},
	{ID: "sunset-glow", Name: "Sunset Glow", FontFamily: "Outfit, sans-serif", BackgroundColor: "#fff7ed", TextColor: "#7c2d12", AccentColor: "#ea580c", Gradient: "linear-gradient(135deg, #fff7ed 0%, #ffedd5 100%)"},
	{ID: "ocean-breeze", Name: "Ocean Breeze", FontFamily: "Quicksand, sans-serif", BackgroundColor: "#ecfeff", TextColor: "#164e63", AccentColor: "#06b6d4", Gradient: "linear-gradient(135deg, #ecfeff 0%, #cffafe 100%)"},
	{ID: "neon-nights", Name: "Neon Nights", FontFamily: "Montserrat, sans-serif", BackgroundColor: "#0f172a", TextColor: "#e2e8f0", AccentColor: "#22d3ee", Gradient: "linear-gradient(to bottom right, #0f172a, #1e1b4b)"},

	// Nature
	{ID: "forest-mist", Name: "Forest Mist", FontFamily: "Merriweather, serif", BackgroundColor: "#f0fdf4", TextColor: "#14532d", AccentColor: "#16a34a"},
	{ID: "earthy-tones", Name: "Earthy Tones", FontFamily: "Lora, serif", BackgroundColor: "#fafaf9", TextColor: "#44403c", AccentColor: "#a8a29e"},

	// Elegant
	{ID: "luxury-gold", Name: "Luxury Gold", FontFamily: "Playfair Display, serif", BackgroundColor: "#1c1917", TextColor: "#fafaf9", AccentColor: "#d4af37", Gradient: "linear-gradient(to bottom, #1c1917, #292524)"},
	{ID: "rose-gold", Name: "Rose Gold", FontFamily: "Playfair Display, serif", BackgroundColor: "#fff1f2", TextColor: "#881337", AccentColor: "#e11d48"},

	// Bold
	{ID: "bold-red", Name: "Bold Red", FontFamily: "Oswald, sans-serif", BackgroundColor: "#ffffff", TextColor: "#000000", AccentColor: "#dc2626"},
	{ID: "high-contrast", Name: "High Contrast", FontFamily: "Impact, sans-serif", BackgroundColor: "#000000", TextColor: "#fbbf24", AccentColor: "#ffffff"},

	// Soft
	{ID: "pastel-pink", Name: "Pastel Pink", FontFamily: "Nunito, sans-serif", BackgroundColor: "#fdf2f8", TextColor: "#831843", AccentColor: "#f472b6"},
	{ID: "lavender-dream", Name: "Lavender Dream", FontFamily: "Nunito, sans-serif", BackgroundColor: "#f5f3ff", TextColor: "#4c1d95", AccentColor: "#a78bfa"},
	{ID: "mint-fresh", Name: "Mint Fresh", FontFamily: "Nunito, sans-serif", BackgroundColor: "#f0fdfa", TextColor: "#134e4a", AccentColor: "#2dd4bf"},

	// Dark Modes
	{ID: "midnight-blue", Name: "Midnight Blue", FontFamily: "Inter, sans-serif", BackgroundColor: "#020617", TextColor: "#e2e8f0", AccentColor: "#38bdf8"},
	{ID: "deep-space", Name: "Deep Space", FontFamily: "Exo 2, sans-serif", BackgroundColor: "#000000", TextColor: "#e5e7eb", AccentColor: "#6366f1", Gradient: "radial-gradient(circle at center, #1e1b4b 0%, #000000 100%)"},
	{ID: "cyberpunk", Name: "Cyberpunk", FontFamily: "Rajdhani, sans-serif", BackgroundColor: "#050505", TextColor: "#00ff41", AccentColor: "#ff00ff"},

	// Gradients
	{ID: "aurora", Name: "Aurora", FontFamily: "Quicksand, sans-serif", BackgroundColor: "#000000", TextColor: "#ffffff", AccentColor: "#4ade80", Gradient: "linear-gradient(to right, #4ade80, #3b82f6)"},
	{ID: "sunset-gradient", Name: "Sunset Gradient", FontFamily: "Montserrat, sans-serif", BackgroundColor: "#000000", TextColor: "#ffffff", AccentColor: "#f97316", Gradient: "linear-gradient(to right, #f97316, #db2777)"},
	{ID: "cool-blues", Name: "Cool Blues", FontFamily: "Inter, sans-serif", BackgroundColor: "#ffffff", TextColor: "#1e293b", AccentColor: "#3b82f6", Gradient: "linear-gradient(to bottom, #eff6ff, #dbeafe)"},

	// Retro
	{ID: "retro-pop", Name: "Retro Pop", FontFamily: "Righteous, cursive", BackgroundColor: "#fef08a", TextColor: "#000000", AccentColor: "#ef4444"},
	{ID: "vintage-paper", Name: "Vintage Paper", FontFamily: "Courier Prime, monospace", BackgroundColor: "#f5f5dc", TextColor: "#3f3f46", AccentColor: "#854d0e"},

	// Professional
	{ID: "consulting", Name: "Consulting", FontFamily: "Lato, sans-serif", BackgroundColor: "#ffffff", TextColor: "#374151", AccentColor: "#059669"},
	{ID: "finance", Name: "Finance", FontFamily: "Lato, sans-serif", BackgroundColor: "#f8fafc", TextColor: "#0f172a", AccentColor: "#1e40af"},
	{ID: "academic", Name: "Academic", FontFamily: "Merriweather, serif", BackgroundColor: "#ffffff", TextColor: "#000000", AccentColor: "#7f1d1d"},
}

// ResolveTheme looks up a theme by id. Unknown or empty ids resolve to the
// catalog's first entry. Themes are decorative, so resolution never fails.
func ResolveTheme(id string) Theme {
	for _, t := range Themes {
		if t.ID == id {
			return t
		}
	}
	return Themes[0]
}
