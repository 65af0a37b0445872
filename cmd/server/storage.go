package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/config"
	"github.com/Obed704/church-portal/internal/storage"
)

// InitStorage selects the configured storage backend. The returned func
// releases any client it opened.
func InitStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func()) {
	switch cfg.StorageBackend {
	case "spaces":
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("Using DigitalOcean Spaces storage")
		return spacesStorage, func() {}
	case "gcs":
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Cloud Storage")
		}
		log.Info().Str("bucket", cfg.GCSBucket).Msg("Using Google Cloud Storage")
		return gcs, func() {
			if err := gcs.Close(); err != nil {
				log.Warn().Err(err).Msg("closing Cloud Storage client")
			}
		}
	}

	log.Info().Str("dir", cfg.UploadDir).Msg("Using local file storage")
	return storage.NewLocalStorage(cfg.UploadDir), func() {}
}
