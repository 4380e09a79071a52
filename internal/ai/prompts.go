package ai

import (
	"fmt"
	"strings"
)

func categorizationPrompt(question string, categories []string) string {
	return fmt.Sprintf(`Given the following medical query, determine the most appropriate medical specialization category from this list: %s.

Query: %s

Please respond with ONLY the name of the most appropriate specialization category from the list provided. Don't include any explanations or additional text.`,
		strings.Join(categories, ", "), question)
}

const responseTemplate = `# Overview
[Provide a brief summary of the main points]

# Detailed Analysis

Key symptoms and their significance:
- [Symptom 1 and its significance]
- [Symptom 2 and its significance]
- [Symptom 3 and its significance]

Potential causes and risk factors:
- [Cause/factor 1]
- [Cause/factor 2]
- [Cause/factor 3]

Relevant medical conditions:
- [Condition 1]
- [Condition 2]
- [Condition 3]

# Clinical Considerations

When to seek immediate medical attention:
- [Emergency situation 1]
- [Emergency situation 2]
- [Emergency situation 3]

Warning signs to watch for:
- [Warning sign 1]
- [Warning sign 2]
- [Warning sign 3]

Risk factors to be aware of:
- [Risk factor 1]
- [Risk factor 2]
- [Risk factor 3]

# Important Notes

Key points to remember:
- [Key point 1]
- [Key point 2]
- [Key point 3]

Lifestyle considerations:
- [Lifestyle point 1]
- [Lifestyle point 2]
- [Lifestyle point 3]

Preventive measures:
- [Measure 1]
- [Measure 2]
- [Measure 3]

# Next Steps

Immediate actions:
- [Action 1]
- [Action 2]
- [Action 3]

Follow-up recommendations:
- [Recommendation 1]
- [Recommendation 2]
- [Recommendation 3]

Self-care measures:
- [Measure 1]
- [Measure 2]
- [Measure 3]`

const responseRules = `Please ensure your response:
1. Follows this exact format with proper markdown
2. Includes the category section at the top
3. Uses proper line breaks between sections
4. Uses proper list formatting with dashes
5. Is professional and medically accurate
6. Is clear and easy to understand
7. Is based on current medical knowledge
8. Is appropriate for the query's urgency level
9. Does not include any disclaimers`

func responsePrompt(question, category string) string {
	return fmt.Sprintf(`You are a medical AI assistant. Please provide a detailed medical response to the following health query. Format your response exactly as shown, starting with the category:

Query: %s

# Category
%s

%s

%s`, question, category, responseTemplate, responseRules)
}
