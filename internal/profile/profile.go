package profile

import (
	"net/url"
	"strings"
)

// AnimalProfile is the self-description of one instance. It is built once
// at startup and is immutable for the lifetime of the process.
type AnimalProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Description string `json:"description"`
	InstanceURL string `json:"instance_url"`
	Habitat     string `json:"habitat,omitempty"`
	Diet        string `json:"diet,omitempty"`
	FunFact     string `json:"fun_fact,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Identity holds the configured animal identity of this instance.
type Identity struct {
	Name        string
	Species     string
	Description string
	Habitat     string
	Diet        string
	FunFact     string
	Emoji       string
	Color       string
}

// New builds the instance's profile from its identity and base URL. The id
// is derived from the two, so it is stable across restarts.
func New(id Identity, instanceURL string) AnimalProfile {
	return AnimalProfile{
		ID:          GenerateID(instanceURL, id.Name),
		Name:        id.Name,
		Species:     id.Species,
		Description: id.Description,
		InstanceURL: instanceURL,
		Habitat:     id.Habitat,
		Diet:        id.Diet,
		FunFact:     id.FunFact,
		Emoji:       id.Emoji,
		Color:       id.Color,
	}
}

// GenerateID derives the instance id as "<host>:<normalized-name>", e.g.
// "furnet-workshop.example.com:rusty". The port is dropped for a cleaner id
// and the animal name is lowercased with spaces replaced by hyphens.
func GenerateID(instanceURL, animalName string) string {
	parsed, err := url.Parse(instanceURL)

	var host string
	if err == nil && parsed.Host != "" {
		host = parsed.Hostname()
	} else {
		// No scheme: url.Parse put everything into Path.
		host = strings.TrimSuffix(instanceURL, "/")
		if i := strings.IndexAny(host, ":/"); i >= 0 {
			host = host[:i]
		}
	}

	name := strings.ReplaceAll(strings.ToLower(animalName), " ", "-")
	return host + ":" + name
}
