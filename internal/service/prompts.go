package service

const imageAnalysisPrompt = `Analyze this image of a refrigerator/fridge contents and identify all food items visible.
Return a JSON array of objects with the following structure:
{
    "name": "ingredient name",
    "confidence": 0.95,
    "category": "category (Vegetables, Protein, Dairy, Pantry, etc.)"
}

Be specific with ingredient names and provide confidence scores between 0.0 and 1.0.
Only include items that are clearly visible and identifiable.`

// recipePromptTemplate takes the comma-separated ingredient clause.
const recipePromptTemplate = `Based on these available ingredients: %s

Generate 3-5 delicious recipes that can be made with these ingredients.
You may suggest a few additional common pantry items if needed.

Return a JSON array of recipe objects with this structure:
{
    "name": "Recipe Name",
    "description": "Brief description",
    "ingredients": ["ingredient1", "ingredient2"],
    "instructions": ["step1", "step2"],
    "cookingTime": 30,
    "difficulty": "Easy/Medium/Hard",
    "servings": 4,
    "tags": ["tag1", "tag2"],
    "nutritionInfo": {
        "calories": 350,
        "protein": 25.5,
        "carbs": 30.2,
        "fat": 15.8,
        "fiber": 8.5
    }
}

Make recipes practical, delicious, and suitable for home cooking.`
