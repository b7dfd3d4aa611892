package keywords

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/podscout/internal/llm"
	"github.com/sells-group/podscout/internal/model"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) GroundedSearch(ctx context.Context, req llm.GroundedRequest) (*llm.GroundedAnswer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.GroundedAnswer), args.Error(1)
}

func (m *mockLLM) ExtractStructured(ctx context.Context, req llm.ExtractRequest, out any) error {
	args := m.Called(ctx, req, out)
	return args.Error(0)
}

func topicConfig(n int) model.CampaignConfig {
	return model.CampaignConfig{
		CampaignID:     "camp-1",
		SearchType:     model.SearchTypeTopic,
		TargetAudience: "B2B SaaS founders scaling past $1M ARR",
		KeyMessages:    []string{"bootstrapping beats venture", "hire slowly"},
		NumKeywords:    n,
	}
}

func TestGenerate_ParsesAndClips(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.GenerateRequest) bool {
		return req.System != "" && req.Prompt != ""
	})).Return("saas founder stories\nbootstrapped startup growth\nb2b sales tactics\nstartup hiring advice\n", nil)

	kws, err := NewGenerator(m).Generate(context.Background(), topicConfig(3))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"saas founder stories",
		"bootstrapped startup growth",
		"b2b sales tactics",
	}, kws)
	m.AssertExpectations(t)
}

func TestGenerate_PromptCarriesAudienceAndMessages(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.GenerateRequest) bool {
		return strings.Contains(req.Prompt, "B2B SaaS founders") &&
			strings.Contains(req.Prompt, "bootstrapping beats venture") &&
			strings.Contains(req.Prompt, "hire slowly")
	})).Return("a b\n", nil)

	_, err := NewGenerator(m).Generate(context.Background(), topicConfig(1))
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestGenerate_StripsNumberingAndBullets(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.Anything).
		Return("1. saas founder stories\n2) growth marketing\n- startup finance\n* hiring playbooks\n\"quoted phrase\"\n", nil)

	kws, err := NewGenerator(m).Generate(context.Background(), topicConfig(10))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"saas founder stories",
		"growth marketing",
		"startup finance",
		"hiring playbooks",
		"quoted phrase",
	}, kws)
}

func TestGenerate_EmptyResponseYieldsEmptySlice(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.Anything).Return("\n  \n", nil)

	kws, err := NewGenerator(m).Generate(context.Background(), topicConfig(5))
	require.NoError(t, err)
	assert.Empty(t, kws)
}

func TestGenerate_ProviderErrorPropagates(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.Anything).Return("", eris.New("boom"))

	_, err := NewGenerator(m).Generate(context.Background(), topicConfig(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keywords: generate")
}
