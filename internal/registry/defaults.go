// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import "github.com/pdiddy/credible-research/pkg/types"

// DefaultSpec returns the built-in credible AI source registry.
func DefaultSpec() Spec {
	return Spec{
		Domains: map[types.SourceCategory][]string{
			types.CategoryAcademic: {
				"arxiv.org",
				"papers.nips.cc",
				"proceedings.mlr.press",
				"aclanthology.org",
				"aaai.org",
				"openreview.net",
				"proceedings.neurips.cc",
				"ieeexplore.ieee.org",
				"dl.acm.org",
				"jmlr.org",
				"springer.com",
				"science.org",
				"nature.com",
				"ai.stanford.edu",
				"csail.mit.edu",
				"bair.berkeley.edu",
				"ml.cmu.edu",
				"ai.ox.ac.uk",
				"cam.ac.uk",
				"distill.pub",
			},
			types.CategoryGovernment: {
				"nsf.gov",
				"ai.gov",
				"nist.gov",
				"nih.gov",
				"gov.uk",
				"canada.ca",
				"digital.gov.au",
				"darpa.mil",
				"energy.gov",
			},
			types.CategoryCompanyResearch: {
				"openai.com/research",
				"openai.com/blog",
				"deepmind.google",
				"deepmind.com",
				"ai.meta.com",
				"ai.facebook.com",
				"research.google",
				"ai.google",
				"microsoft.com/en-us/research/research-area/artificial-intelligence",
				"research.microsoft.com",
				"huggingface.co/blog",
				"anthropic.com",
				"cohere.com/blog",
				"inflection.ai",
				"ai.googleblog.com",
				"engineering.fb.com",
				"netflixtechblog.com",
				"eng.uber.com",
				"aws.amazon.com/blogs/machine-learning",
				"developer.nvidia.com/blog",
			},
			types.CategoryIndustry: {
				"techcrunch.com/category/artificial-intelligence",
				"venturebeat.com/ai",
				"technologyreview.com",
				"wired.com/tag/artificial-intelligence",
				"theverge.com/ai-artificial-intelligence",
				"artificialintelligence-news.com",
				"aimagazine.com",
				"aibusiness.com",
				"thenewstack.io",
				"infoq.com/ai-ml-data-eng",
			},
			types.CategoryAIBlogs: {
				"towardsdatascience.com",
				"machinelearningmastery.com",
				"kdnuggets.com",
				"analyticsvidhya.com",
				"sebastianraschka.com/blog",
				"lilianweng.github.io",
				"ruder.io",
				"analyticsinsight.net",
				"unite.ai",
				"marktechpost.com",
				"paperswithcode.com",
				"kaggle.com",
			},
		},
		Priority: map[types.SourceCategory]float64{
			types.CategoryAcademic:        1.0,
			types.CategoryGovernment:      0.9,
			types.CategoryCompanyResearch: 0.8,
			types.CategoryIndustry:        0.6,
			types.CategoryAIBlogs:         0.5,
		},
		Distribution: map[types.SourceCategory]float64{
			types.CategoryAcademic:        0.40,
			types.CategoryGovernment:      0.10,
			types.CategoryCompanyResearch: 0.25,
			types.CategoryIndustry:        0.15,
			types.CategoryAIBlogs:         0.10,
		},
	}
}

// Default returns the built-in registry. The built-in spec is valid, so
// Default panics only if it is edited into an invalid state.
func Default(opts ...Option) *Registry {
	r, err := New(DefaultSpec(), opts...)
	if err != nil {
		panic(err)
	}
	return r
}
