package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jgoldschrafe/redphone-cli/internal/config"
	"github.com/jgoldschrafe/redphone-cli/internal/options"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

// writeConfig writes content to a temp config file and returns its path.
func writeConfig(content string) string {
	dir := GinkgoT().TempDir()
	path := filepath.Join(dir, ".redphone.yml")

	err := os.WriteFile(path, []byte(content), 0o600)
	Expect(err).ToNot(HaveOccurred())

	return path
}

var _ = Describe("Loader", func() {
	Describe("Load", func() {
		It("should return an empty set when the file does not exist", func() {
			loader := config.NewLoader("/nonexistent/.redphone.yml")

			set, err := loader.Load(config.DefaultSection)

			Expect(err).ToNot(HaveOccurred())
			Expect(set).To(BeEmpty())
		})

		It("should return an empty set when the section is missing", func() {
			path := writeConfig("other_section:\n  service_key: key1\n")
			loader := config.NewLoader(path)

			set, err := loader.Load(config.DefaultSection)

			Expect(err).ToNot(HaveOccurred())
			Expect(set).To(BeEmpty())
		})

		It("should return the section's key-value pairs", func() {
			path := writeConfig(
				"pagerduty:\n" +
					"  service_key: key1\n" +
					"  subdomain: example\n",
			)
			loader := config.NewLoader(path)

			set, err := loader.Load(config.DefaultSection)

			Expect(err).ToNot(HaveOccurred())

			key, _ := set.String(options.ServiceKey)
			Expect(key).To(Equal("key1"))

			sub, _ := set.String(options.Subdomain)
			Expect(sub).To(Equal("example"))
		})

		It("should normalize dashed keys to the flag identifier form", func() {
			path := writeConfig(
				"pagerduty:\n" +
					"  client-url: https://monitoring.example.com\n",
			)
			loader := config.NewLoader(path)

			set, err := loader.Load(config.DefaultSection)

			Expect(err).ToNot(HaveOccurred())

			url, ok := set.String(options.ClientURL)
			Expect(ok).To(BeTrue())
			Expect(url).To(Equal("https://monitoring.example.com"))
		})

		It("should ignore keys that are not recognized options", func() {
			path := writeConfig(
				"pagerduty:\n" +
					"  service_key: key1\n" +
					"  unrelated: value\n",
			)
			loader := config.NewLoader(path)

			set, err := loader.Load(config.DefaultSection)

			Expect(err).ToNot(HaveOccurred())
			Expect(set).To(HaveLen(1))
		})

		It("should fail with ErrInvalidConfig on malformed YAML", func() {
			path := writeConfig("pagerduty: [unclosed\n")
			loader := config.NewLoader(path)

			_, err := loader.Load(config.DefaultSection)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		})
	})

	Describe("Resolve", func() {
		It("should apply flags over file values over defaults", func() {
			path := writeConfig(
				"pagerduty:\n" +
					"  service_key: from-file\n" +
					"  subdomain: example\n",
			)
			loader := config.NewLoader(path)

			defaults := options.Set{options.Client: "web01"}
			flags := options.Set{options.ServiceKey: "from-flag"}

			set, err := loader.Resolve(config.DefaultSection, defaults, flags)

			Expect(err).ToNot(HaveOccurred())

			key, _ := set.String(options.ServiceKey)
			Expect(key).To(Equal("from-flag"))

			sub, _ := set.String(options.Subdomain)
			Expect(sub).To(Equal("example"))

			client, _ := set.String(options.Client)
			Expect(client).To(Equal("web01"))
		})

		It("should apply environment variables over file values", func() {
			path := writeConfig(
				"pagerduty:\n" +
					"  subdomain: from-file\n",
			)
			loader := config.NewLoader(path)

			GinkgoT().Setenv("REDPHONE_SUBDOMAIN", "from-env")

			set, err := loader.Resolve(config.DefaultSection, nil, nil)

			Expect(err).ToNot(HaveOccurred())

			sub, _ := set.String(options.Subdomain)
			Expect(sub).To(Equal("from-env"))
		})

		It("should let flags win over environment variables", func() {
			loader := config.NewLoader("/nonexistent/.redphone.yml")

			GinkgoT().Setenv("REDPHONE_SERVICE_KEY", "from-env")

			flags := options.Set{options.ServiceKey: "from-flag"}

			set, err := loader.Resolve(config.DefaultSection, nil, flags)

			Expect(err).ToNot(HaveOccurred())

			key, _ := set.String(options.ServiceKey)
			Expect(key).To(Equal("from-flag"))
		})

		It("should ignore unrelated environment variables", func() {
			loader := config.NewLoader("/nonexistent/.redphone.yml")

			GinkgoT().Setenv("REDPHONE_UNRELATED", "junk")

			set, err := loader.Resolve(config.DefaultSection, nil, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(set).To(BeEmpty())
		})

		It("should propagate config parse errors", func() {
			path := writeConfig("pagerduty: [unclosed\n")
			loader := config.NewLoader(path)

			_, err := loader.Resolve(config.DefaultSection, nil, nil)

			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		})

		It("should carry structured details through the merge", func() {
			loader := config.NewLoader("/nonexistent/.redphone.yml")

			flags := options.Set{
				options.Details: map[string]any{"host": "web01"},
			}

			set, err := loader.Resolve(config.DefaultSection, nil, flags)

			Expect(err).ToNot(HaveOccurred())

			details, ok := set.Map(options.Details)
			Expect(ok).To(BeTrue())
			Expect(details).To(HaveKeyWithValue("host", "web01"))
		})
	})
})
