package usecase

import (
	"fmt"
	"strings"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

func formatHistory(history []domain.ConversationTurn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, "\n")
}

// formatRetrievedDocs renders retrieval hits with their page tag so the model
// can cite them.
func formatRetrievedDocs(docs []domain.RetrievalResult) string {
	formatted := make([]string, 0, len(docs))
	for _, doc := range docs {
		formatted = append(formatted, fmt.Sprintf("[Page %d]\n%s", doc.PageNumber, doc.Content))
	}
	return strings.Join(formatted, "\n\n---\n\n")
}

func buildRefinerPrompt(query string, history []domain.ConversationTurn) string {
	return fmt.Sprintf(`You are a specialized query refiner in a Retrieval-Augmented Generation (RAG) system. Your task is to transform a user's original question into a clear, concise, and focused query optimized for similarity search against a document corpus.

Instructions:

1. Review Context: Analyze the provided conversation history.
 Identify key topics, subject matter, and any previous questions.
2. Analyze Query: Evaluate the user's question.
3. Determine Relevance:
    - If the query uses referential language (e.g., "What about...", "And what about...", pronouns such as "these" or "that") or directly builds upon a topic from a previous question (for example, asking "What about garages?" following a query "What is the required certification around Fire-rated Doors and Frames?"), then treat the query as directly related to the conversation history.
    - If the query is standalone and does not rely on prior context, focus exclusively on refining the user's question.
4. Refinement: Rewrite the query to be unambiguous, specific, and optimized for similarity search, incorporating relevant context only if the query is determined to be directly related to the conversation history.
5. Output: Return only the refined query with no additional commentary or formatting.

conversation history:

%s

user question:

%s

Your refined query:`, formatHistory(history), query)
}

func buildPrimaryPrompt(question string, docs []domain.RetrievalResult, history []domain.ConversationTurn) string {
	return fmt.Sprintf(`You are an expert in building regulations at the Hilton hotel. Your job is to answer questions using only the documents provided. Follow these instructions carefully:

1. Use Provided Information Only:
   - Base your answer solely on the details in the documents.
   - If you cannot find sufficient information, explicitly state this.

2. Self-Reflection:
   - Assess your confidence in the answer (0-1 scale)
   - If confidence < 0.7, indicate the answer needs rerouting
   - Explain why you are/aren't confident

3. Citation and Structure:
   - For every statement, cite the specific section and page number
   - Format sources as: [Page X, Section Y.Y.Y]
   - Collect all sources used in a separate list

4. Output Format:
   Return your response as a JSON object with:
   - answer: your detailed response with inline citations
   - confidence: number between 0 and 1 (not a string)
   - sources: array of used sources, each containing:
     - page_number: page number
     - section: section number/id
     - content: relevant excerpt from source
   - needs_rerouting: boolean indicating if query needs rerouting

5. Uncertainty Handling:
   - If information is incomplete, state what's missing
   - If question is outside scope of provided documents, set needs_rerouting to true

Here is the relevant information:

Documents:
%s

Previous Conversation:
%s

Question: %s

Provide your response in the specified JSON format.`, formatRetrievedDocs(docs), formatHistory(history), question)
}

func buildEscalationPrompt(question, fullDoc string, history []domain.ConversationTurn) string {
	return fmt.Sprintf(`You are an expert in building regulations at the Hilton hotel. Your job is to answer questions using only the documents provided. Follow the instructions below:

1. Use Provided Information Only:
   - Base your answer solely on the details in the documents.
   - Do not introduce any external information.

2. Cite Specific Sections:
   - For every regulation or requirement mentioned, include the corresponding section number (e.g., Section 2516.03).
   - Ensure each cited section directly supports your response.

3. Reference Documents by Page Number:
   Each document begins with metadata that includes a 'page_number' field formatted as [Page_Number] (e.g., [230]).
   - When referring to any document, use the page number from the metadata.

4. Organize Your Answer Clearly:
   - Present your answer in a structured format (e.g., bullet points, numbered lists, headlines, or clear paragraphs).
   - Prioritize clarity and conciseness.

5. Acknowledge Limitations:
   - If the provided documents do not contain enough information to answer the question fully, explicitly state this limitation in your response.
- Your output must be in a structured format.

Here is the relevant information to help answer the question:

Documents:
%s

Previous Conversation:
%s

Question:
%s

Please provide your answer based on the documents. also follow the guidelines above.`, fullDoc, formatHistory(history), question)
}
