package linker

import (
	"context"
	"log/slog"

	"github.com/furnet-labs/furnet/internal/apperrors"
	"github.com/furnet-labs/furnet/internal/friends"
	"github.com/furnet-labs/furnet/internal/peer"
	"github.com/furnet-labs/furnet/internal/profile"
)

// ProfileFetcher retrieves a peer's profile from a raw URL.
type ProfileFetcher interface {
	Fetch(ctx context.Context, rawURL string) (profile.AnimalProfile, error)
}

// FriendRegistry is the part of the friend registry the linker needs.
type FriendRegistry interface {
	Add(ctx context.Context, candidate friends.Candidate) (friends.Friend, error)
}

// Linker composes fetcher and registry into the two-step handshake.
type Linker struct {
	logger   *slog.Logger
	fetcher  ProfileFetcher
	registry FriendRegistry
}

func New(logger *slog.Logger, fetcher ProfileFetcher, registry FriendRegistry) *Linker {
	return &Linker{
		logger:   logger,
		fetcher:  fetcher,
		registry: registry,
	}
}

// Link verifies the peer at rawURL and records it as a friend of selfID.
// The steps are strictly ordered: canonicalize, fetch, self-check, then
// register. Any failure aborts the invocation with the registry untouched.
func (l *Linker) Link(ctx context.Context, selfID, rawURL string) (friends.Friend, error) {
	canonical, err := peer.Canonicalize(rawURL)
	if err != nil {
		return friends.Friend{}, err
	}

	peerProfile, err := l.fetcher.Fetch(ctx, canonical)
	if err != nil {
		l.logger.Warn("Peer verification failed",
			slog.String("url", canonical),
			slog.String("error", err.Error()))
		return friends.Friend{}, err
	}

	if peerProfile.ID == selfID {
		return friends.Friend{}, apperrors.SelfLinkRejected(
			"an instance cannot friend itself")
	}

	dnsName, err := peer.Hostname(canonical)
	if err != nil {
		return friends.Friend{}, err
	}

	friend, err := l.registry.Add(ctx, friends.Candidate{
		UniqueID: peerProfile.ID,
		DNSName:  dnsName,
		Name:     peerProfile.Name,
	})
	if err != nil {
		return friends.Friend{}, err
	}

	l.logger.Info("Friend linked",
		slog.String("unique_id", friend.UniqueID),
		slog.String("dns_name", friend.DNSName))

	return friend, nil
}
