package settings

import "context"

type settingsKey struct{}

func WithConfig(ctx context.Context, cfg *Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, cfg)
}

func FromContext(ctx context.Context) *Settings {
	cfg, ok := ctx.Value(settingsKey{}).(*Settings)
	if !ok || cfg == nil {
		return NewSettings()
	}
	return cfg
}
