package peer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/furnet-labs/furnet/internal/apperrors"
	"github.com/furnet-labs/furnet/internal/peer"
)

func TestPeer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Peer Suite")
}

var _ = Describe("Canonicalize", func() {
	It("should default to https when the scheme is missing", func() {
		canonical, err := peer.Canonicalize("friend.example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(canonical).To(Equal("https://friend.example.com"))
	})

	It("should strip one trailing slash", func() {
		canonical, err := peer.Canonicalize("https://friend.example.com/")
		Expect(err).NotTo(HaveOccurred())
		Expect(canonical).To(Equal("https://friend.example.com"))
	})

	It("should leave already canonical URLs unchanged", func() {
		canonical, err := peer.Canonicalize("http://localhost:8000")
		Expect(err).NotTo(HaveOccurred())
		Expect(canonical).To(Equal("http://localhost:8000"))
	})

	It("should trim surrounding whitespace", func() {
		canonical, err := peer.Canonicalize("  friend.example.com ")
		Expect(err).NotTo(HaveOccurred())
		Expect(canonical).To(Equal("https://friend.example.com"))
	})

	It("should reject empty input", func() {
		_, err := peer.Canonicalize("   ")
		Expect(err).To(HaveOccurred())
		Expect(apperrors.IsBadParameter(err)).To(BeTrue())
	})
})

var _ = Describe("Hostname", func() {
	It("should discard scheme, port and path", func() {
		host, err := peer.Hostname("https://friend.example.com:8443")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("friend.example.com"))
	})
})

var _ = Describe("Fetcher", func() {
	var (
		fetcher *peer.Fetcher
		ctx     context.Context
	)

	BeforeEach(func() {
		fetcher = peer.NewFetcher(2 * time.Second)
		ctx = context.Background()
	})

	Context("with a reachable peer", func() {
		var mockPeer *httptest.Server

		BeforeEach(func() {
			mockPeer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/me" {
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(`{
						"id": "friend.example.com:buddy",
						"name": "Buddy",
						"species": "Arctic Fox",
						"description": "A friendly fox",
						"instance_url": "https://friend.example.com",
						"emoji": "🦊"
					}`))
					return
				}
				w.WriteHeader(http.StatusNotFound)
			}))
		})

		AfterEach(func() {
			mockPeer.Close()
		})

		It("should decode the peer profile", func() {
			p, err := fetcher.Fetch(ctx, mockPeer.URL)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal("friend.example.com:buddy"))
			Expect(p.Name).To(Equal("Buddy"))
			Expect(p.Emoji).To(Equal("🦊"))
		})

		It("should fetch the same target with and without a trailing slash", func() {
			p1, err := fetcher.Fetch(ctx, mockPeer.URL)
			Expect(err).NotTo(HaveOccurred())

			p2, err := fetcher.Fetch(ctx, mockPeer.URL+"/")
			Expect(err).NotTo(HaveOccurred())

			Expect(p1.ID).To(Equal(p2.ID))
		})
	})

	Context("with an unreachable peer", func() {
		It("should classify connection failures as unreachable", func() {
			// Port from a server that is already closed.
			dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			deadURL := dead.URL
			dead.Close()

			_, err := fetcher.Fetch(ctx, deadURL)
			Expect(err).To(HaveOccurred())
			Expect(apperrors.IsPeerUnreachable(err)).To(BeTrue())
		})

		It("should classify non-success statuses as unreachable", func() {
			mockPeer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer mockPeer.Close()

			_, err := fetcher.Fetch(ctx, mockPeer.URL)
			Expect(err).To(HaveOccurred())
			Expect(apperrors.IsPeerUnreachable(err)).To(BeTrue())
		})
	})

	Context("with a peer returning garbage", func() {
		It("should classify undecodable bodies as malformed", func() {
			mockPeer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			}))
			defer mockPeer.Close()

			_, err := fetcher.Fetch(ctx, mockPeer.URL)
			Expect(err).To(HaveOccurred())
			Expect(apperrors.IsPeerMalformed(err)).To(BeTrue())
		})

		It("should classify profiles without an id as malformed", func() {
			mockPeer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"name": "Nameless"}`))
			}))
			defer mockPeer.Close()

			_, err := fetcher.Fetch(ctx, mockPeer.URL)
			Expect(err).To(HaveOccurred())
			Expect(apperrors.IsPeerMalformed(err)).To(BeTrue())
		})
	})
})
