package config

import (
	"context"
	"log"
)

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	for _, closer := range b.Closers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := closer.Close(); err != nil {
			return err
		}
		log.Printf("Successfully closing %s", closer.Name)
	}

	err := b.Logger.Sync()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Logger")

	return nil
}
